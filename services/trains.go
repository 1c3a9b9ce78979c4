package services

import (
	"context"
	"fmt"
	"time"

	"travel-scraper/extract"
	"travel-scraper/lookup"
	"travel-scraper/models"
	"travel-scraper/scraper"
	"travel-scraper/scraper/confirmtkt"
)

// TrainFetcher is satisfied by *confirmtkt.Fetcher.
type TrainFetcher interface {
	Fetch(ctx context.Context, p confirmtkt.Params) scraper.Result[models.RawTrain]
}

// TrainService scrapes train routes into the store and searches them.
type TrainService struct {
	fetcher TrainFetcher
	deps    Deps
	opts    Options
	gate    *routeGate
	memo    *searchMemo[*models.TrainRoute]
	now     func() time.Time
}

// NewTrainService wires a TrainService.
func NewTrainService(fetcher TrainFetcher, deps Deps, opts Options) *TrainService {
	return &TrainService{
		fetcher: fetcher,
		deps:    deps,
		opts:    opts,
		gate:    &routeGate{domain: models.DomainTrains, metrics: deps.Metrics},
		memo:    newSearchMemo[*models.TrainRoute](opts.MemoSize, opts.MemoTTL),
		now:     time.Now,
	}
}

// Cities lists the station names trains can be searched between.
func (s *TrainService) Cities() []string {
	return lookup.StationNames()
}

// Scrape fetches the route, reconciles it into the store and refreshes the
// route's cache entry. Concurrent scrapes of one route share a run.
func (s *TrainService) Scrape(ctx context.Context, req models.RouteScrapeRequest) (*models.ScrapeResult[*models.TrainRoute], error) {
	from, to, err := resolvePair(lookup.KindStation, req.FromCity, req.ToCity)
	if err != nil {
		return nil, err
	}
	maxItems := req.MaxItems
	if maxItems <= 0 {
		maxItems = s.opts.MaxItems
	}
	key := trainCacheKey(from, to)

	v, err := s.gate.do(ctx, key.String(), func(ctx context.Context) (any, error) {
		return s.scrape(ctx, from, to, maxItems, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.ScrapeResult[*models.TrainRoute]), nil
}

func (s *TrainService) scrape(ctx context.Context, from, to lookup.Resolved, maxItems int, key models.CacheKey) (*models.ScrapeResult[*models.TrainRoute], error) {
	start := s.now()
	defer s.memo.invalidate(key.String())

	fetched := s.fetcher.Fetch(ctx, confirmtkt.Params{
		FromCode: from.Code,
		ToCode:   to.Code,
		FromCity: from.City,
		ToCity:   to.City,
		MaxItems: maxItems,
	})
	domain := string(models.DomainTrains)
	s.deps.Metrics.IncScrape(domain, fetched.Source)
	if fetched.Fallback {
		s.deps.Metrics.IncFallback(domain, fetched.Reason)
	}
	exportRaw(s.deps, models.DomainTrains, fetched.Items)

	trains := s.deps.Normalizer.Trains(fetched.Items, from, to)
	rec, err := s.deps.Reconciler.ReconcileTrains(ctx, trains, key)
	if err != nil {
		return nil, err
	}
	s.deps.Metrics.ObserveScrape(domain, s.now().Sub(start))

	return &models.ScrapeResult[*models.TrainRoute]{
		Items:          trains,
		SavedCount:     rec.Created,
		UpdatedCount:   rec.Updated,
		ErrorCount:     len(rec.Errors),
		Source:         fetched.Source,
		Fallback:       fetched.Fallback,
		FallbackReason: fetched.Reason,
	}, nil
}

// Search reads stored trains for the route with their cache freshness.
func (s *TrainService) Search(ctx context.Context, req models.TrainSearchRequest) (*models.SearchResult[*models.TrainRoute], error) {
	from, to, err := resolvePair(lookup.KindStation, req.FromCity, req.ToCity)
	if err != nil {
		return nil, err
	}
	sortKey, err := models.ParseSortKey(req.SortBy, models.SortDeparture,
		models.SortPrice, models.SortDuration, models.SortDeparture)
	if err != nil {
		return nil, invalid("sortBy", err)
	}
	date, err := parseDate("date", req.Date, false)
	if err != nil {
		return nil, err
	}
	if err := checkClock("filters.departureAfter", req.Filters.DepartureAfter); err != nil {
		return nil, err
	}
	if err := checkClock("filters.departureBefore", req.Filters.DepartureBefore); err != nil {
		return nil, err
	}

	key := trainCacheKey(from, to)
	rows, err := s.rows(ctx, from, to, key)
	if err != nil {
		return nil, err
	}
	entry, err := s.deps.Store.FindCacheEntry(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("search trains: %w", err)
	}
	fr := EvaluateFreshness(entry, s.opts.TTL, s.now())

	weekday := ""
	if !date.IsZero() {
		weekday = extract.WeekdayAbbrev(date)
	}
	items := filterTrains(rows, req.Filters, weekday)
	sortTrains(items, sortKey)

	s.deps.Metrics.IncSearch(string(models.DomainTrains), fr.NeedsScraping)
	return searchResult(items, fr), nil
}

func (s *TrainService) rows(ctx context.Context, from, to lookup.Resolved, key models.CacheKey) ([]*models.TrainRoute, error) {
	if rows, ok := s.memo.get(key.String()); ok {
		return rows, nil
	}
	rows, err := s.deps.Store.ListTrains(ctx, from.Code, to.Code)
	if err != nil {
		return nil, fmt.Errorf("search trains: %w", err)
	}
	s.memo.put(key.String(), rows)
	return rows, nil
}

// Routes are keyed by station code: several names share a city.
func trainCacheKey(from, to lookup.Resolved) models.CacheKey {
	return models.CacheKey{Domain: models.DomainTrains, FromCity: from.Code, ToCity: to.Code}
}
