package services

import (
	"context"
	"fmt"
	"time"

	"travel-scraper/lookup"
	"travel-scraper/models"
	"travel-scraper/scraper"
	"travel-scraper/scraper/ixigo"
)

// FlightFetcher is satisfied by *ixigo.Fetcher.
type FlightFetcher interface {
	Fetch(ctx context.Context, p ixigo.Params) scraper.Result[models.RawFlight]
}

// FlightService scrapes flights for a route and date and searches them.
type FlightService struct {
	fetcher FlightFetcher
	deps    Deps
	opts    Options
	gate    *routeGate
	memo    *searchMemo[*models.FlightRoute]
	now     func() time.Time
}

// NewFlightService wires a FlightService.
func NewFlightService(fetcher FlightFetcher, deps Deps, opts Options) *FlightService {
	return &FlightService{
		fetcher: fetcher,
		deps:    deps,
		opts:    opts,
		gate:    &routeGate{domain: models.DomainFlights, metrics: deps.Metrics},
		memo:    newSearchMemo[*models.FlightRoute](opts.MemoSize, opts.MemoTTL),
		now:     time.Now,
	}
}

// Cities lists the city names flights can be searched between.
func (s *FlightService) Cities() []string {
	return lookup.AirportNames()
}

// Scrape fetches flights for the route and date and replaces the stored set.
func (s *FlightService) Scrape(ctx context.Context, req models.RouteScrapeRequest) (*models.ScrapeResult[*models.FlightRoute], error) {
	from, to, err := resolvePair(lookup.KindAirport, req.FromCity, req.ToCity)
	if err != nil {
		return nil, err
	}
	date, err := parseDate("date", req.Date, true)
	if err != nil {
		return nil, err
	}
	maxItems := req.MaxItems
	if maxItems <= 0 {
		maxItems = s.opts.MaxItems
	}
	key := flightCacheKey(from, to, date)

	v, err := s.gate.do(ctx, key.String(), func(ctx context.Context) (any, error) {
		return s.scrape(ctx, from, to, date, maxItems, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.ScrapeResult[*models.FlightRoute]), nil
}

func (s *FlightService) scrape(ctx context.Context, from, to lookup.Resolved, date time.Time, maxItems int, key models.CacheKey) (*models.ScrapeResult[*models.FlightRoute], error) {
	start := s.now()
	defer s.memo.invalidate(key.String())

	fetched := s.fetcher.Fetch(ctx, ixigo.Params{
		FromCode: from.Code,
		ToCode:   to.Code,
		Date:     date,
		MaxItems: maxItems,
	})
	domain := string(models.DomainFlights)
	s.deps.Metrics.IncScrape(domain, fetched.Source)
	if fetched.Fallback {
		s.deps.Metrics.IncFallback(domain, fetched.Reason)
	}
	exportRaw(s.deps, models.DomainFlights, fetched.Items)

	flights := s.deps.Normalizer.Flights(fetched.Items, from, to, date)
	rec, err := s.deps.Reconciler.ReconcileFlights(ctx, flights, from.Code, to.Code, date, key)
	if err != nil {
		return nil, err
	}
	s.deps.Metrics.ObserveScrape(domain, s.now().Sub(start))

	return &models.ScrapeResult[*models.FlightRoute]{
		Items:          flights,
		SavedCount:     rec.Created,
		UpdatedCount:   rec.Updated,
		ErrorCount:     len(rec.Errors),
		Source:         fetched.Source,
		Fallback:       fetched.Fallback,
		FallbackReason: fetched.Reason,
	}, nil
}

// Search reads stored flights for the route and date with their cache
// freshness.
func (s *FlightService) Search(ctx context.Context, req models.FlightSearchRequest) (*models.SearchResult[*models.FlightRoute], error) {
	from, to, err := resolvePair(lookup.KindAirport, req.FromCity, req.ToCity)
	if err != nil {
		return nil, err
	}
	date, err := parseDate("date", req.Date, true)
	if err != nil {
		return nil, err
	}
	sortKey, err := models.ParseSortKey(req.SortBy, models.SortPrice,
		models.SortPrice, models.SortDuration, models.SortDeparture)
	if err != nil {
		return nil, invalid("sortBy", err)
	}
	if err := checkClock("filters.departureAfter", req.Filters.DepartureAfter); err != nil {
		return nil, err
	}
	if err := checkClock("filters.departureBefore", req.Filters.DepartureBefore); err != nil {
		return nil, err
	}
	if st := req.Filters.Stops; st != nil && (*st < 0 || *st > 2) {
		return nil, invalidf("filters.stops", "want 0, 1 or 2, got %d", *st)
	}

	key := flightCacheKey(from, to, date)
	rows, err := s.rows(ctx, from, to, date, key)
	if err != nil {
		return nil, err
	}
	entry, err := s.deps.Store.FindCacheEntry(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("search flights: %w", err)
	}
	fr := EvaluateFreshness(entry, s.opts.TTL, s.now())

	items := filterFlights(rows, req.Filters)
	sortFlights(items, sortKey)

	s.deps.Metrics.IncSearch(string(models.DomainFlights), fr.NeedsScraping)
	return searchResult(items, fr), nil
}

func (s *FlightService) rows(ctx context.Context, from, to lookup.Resolved, date time.Time, key models.CacheKey) ([]*models.FlightRoute, error) {
	if rows, ok := s.memo.get(key.String()); ok {
		return rows, nil
	}
	rows, err := s.deps.Store.ListFlights(ctx, from.Code, to.Code, date)
	if err != nil {
		return nil, fmt.Errorf("search flights: %w", err)
	}
	s.memo.put(key.String(), rows)
	return rows, nil
}

func flightCacheKey(from, to lookup.Resolved, date time.Time) models.CacheKey {
	return models.CacheKey{
		Domain:     models.DomainFlights,
		FromCity:   from.Code,
		ToCity:     to.Code,
		SearchDate: date.Format(models.DateLayout),
	}
}
