package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travel-scraper/lookup"
	"travel-scraper/models"
	"travel-scraper/scraper"
	"travel-scraper/scraper/olx"
	"travel-scraper/storage"
)

const allCategories = "all"

// ClassifiedFetcher is satisfied by *olx.Client.
type ClassifiedFetcher interface {
	Fetch(ctx context.Context, p olx.Params) ([]models.RawClassified, error)
}

// ClassifiedService scrapes classifieds listings and searches the stored
// ones. Unlike trains and flights a failed fetch is returned to the caller.
type ClassifiedService struct {
	fetcher  ClassifiedFetcher
	deps     Deps
	opts     Options
	maxPages int
	gate     *routeGate
	now      func() time.Time
}

// NewClassifiedService wires a ClassifiedService. maxPages is used when a
// request does not set one.
func NewClassifiedService(fetcher ClassifiedFetcher, deps Deps, opts Options, maxPages int) *ClassifiedService {
	return &ClassifiedService{
		fetcher:  fetcher,
		deps:     deps,
		opts:     opts,
		maxPages: maxPages,
		gate:     &routeGate{domain: models.DomainClassifieds, metrics: deps.Metrics},
		now:      time.Now,
	}
}

// classifiedScope is a resolved location and category.
type classifiedScope struct {
	locationSlug string
	location     lookup.OLXLocationInfo
	categorySlug string
	category     lookup.OLXCategoryInfo
}

func (sc classifiedScope) cacheKey() models.CacheKey {
	return models.CacheKey{Domain: models.DomainClassifieds, FromCity: sc.locationSlug, ToCity: sc.categorySlug}
}

// locationFilter is the stored location slug a search narrows to, or ""
// for the whole country.
func (sc classifiedScope) locationFilter() string {
	if sc.locationSlug == lookup.DefaultOLXLocation {
		return ""
	}
	return sc.locationSlug
}

func resolveScope(location, category string) (classifiedScope, error) {
	sc := classifiedScope{locationSlug: lookup.Normalize(location), categorySlug: allCategories}
	if sc.locationSlug == "" {
		sc.locationSlug = lookup.DefaultOLXLocation
	}
	loc, ok := lookup.OLXLocation(sc.locationSlug)
	if !ok {
		return sc, invalid("location", fmt.Errorf("%q: %w", location, lookup.ErrNotFound))
	}
	sc.location = loc

	if slug := lookup.Normalize(category); slug != "" {
		cat, ok := lookup.OLXCategory(slug)
		if !ok {
			return sc, invalid("category", fmt.Errorf("%q: %w", category, lookup.ErrNotFound))
		}
		sc.categorySlug, sc.category = slug, cat
	}
	return sc, nil
}

// Scrape fetches listings for the location and category and reconciles
// them into the store.
func (s *ClassifiedService) Scrape(ctx context.Context, req models.ClassifiedScrapeRequest) (*models.ScrapeResult[*models.ClassifiedListing], error) {
	sc, err := resolveScope(req.Location, req.Category)
	if err != nil {
		return nil, err
	}
	subtype := ""
	if req.Subtype != "" {
		st, ok := lookup.OLXSubtype(req.Subtype)
		if !ok {
			return nil, invalid("subtype", fmt.Errorf("%q: %w", req.Subtype, lookup.ErrNotFound))
		}
		subtype = st
	}
	if err := checkPriceBounds(req.MinPrice, req.MaxPrice); err != nil {
		return nil, err
	}
	maxPages := req.MaxPages
	if maxPages <= 0 {
		maxPages = s.maxPages
	}

	params := olx.Params{
		LocationCode: sc.location.Code,
		CategoryID:   sc.category.ID,
		CategoryName: sc.category.Name,
		Subtype:      subtype,
		MinPrice:     req.MinPrice,
		MaxPrice:     req.MaxPrice,
		MaxPages:     maxPages,
	}
	key := sc.cacheKey()
	v, err := s.gate.do(ctx, key.String(), func(ctx context.Context) (any, error) {
		return s.scrape(ctx, params, sc, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.ScrapeResult[*models.ClassifiedListing]), nil
}

func (s *ClassifiedService) scrape(ctx context.Context, params olx.Params, sc classifiedScope, key models.CacheKey) (*models.ScrapeResult[*models.ClassifiedListing], error) {
	start := s.now()
	domain := string(models.DomainClassifieds)

	raw, err := s.fetcher.Fetch(ctx, params)
	if err != nil {
		s.deps.Metrics.IncFetchError(domain, string(scraper.KindOf(err)))
		s.deps.Logger.Error("[classifieds] Fetch failed for %s: %v", key, err)
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	s.deps.Metrics.IncScrape(domain, olx.Source)
	exportRaw(s.deps, models.DomainClassifieds, raw)

	listings := s.deps.Normalizer.Classifieds(raw, sc.locationFilter(), sc.category.Name)
	rec, err := s.deps.Reconciler.ReconcileListings(ctx, listings, key)
	if err != nil {
		return nil, err
	}
	s.deps.Metrics.ObserveScrape(domain, s.now().Sub(start))

	return &models.ScrapeResult[*models.ClassifiedListing]{
		Items:        listings,
		SavedCount:   rec.Created,
		UpdatedCount: rec.Updated,
		ErrorCount:   len(rec.Errors),
		Source:       olx.Source,
	}, nil
}

// Search reads active stored listings for the location and category.
func (s *ClassifiedService) Search(ctx context.Context, req models.ClassifiedSearchRequest) (*models.SearchResult[*models.ClassifiedListing], error) {
	sc, err := resolveScope(req.Location, req.Category)
	if err != nil {
		return nil, err
	}
	sortKey, err := models.ParseSortKey(req.SortBy, models.SortNewest, models.SortNewest, models.SortPrice)
	if err != nil {
		return nil, invalid("sortBy", err)
	}
	if err := checkPriceBounds(req.Filters.MinPrice, req.Filters.MaxPrice); err != nil {
		return nil, err
	}

	q := storage.ListingQuery{
		Location:   sc.locationFilter(),
		City:       req.Filters.City,
		Category:   sc.category.Name,
		MinPrice:   req.Filters.MinPrice,
		MaxPrice:   req.Filters.MaxPrice,
		ActiveOnly: true,
	}
	items, err := s.deps.Store.SearchListings(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search classifieds: %w", err)
	}
	key := sc.cacheKey()
	entry, err := s.deps.Store.FindCacheEntry(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("search classifieds: %w", err)
	}
	fr := EvaluateFreshness(entry, s.opts.TTL, s.now())
	sortListings(items, sortKey)

	s.deps.Metrics.IncSearch(string(models.DomainClassifieds), fr.NeedsScraping)
	return searchResult(items, fr), nil
}

// Deactivate marks a listing inactive so searches skip it.
func (s *ClassifiedService) Deactivate(ctx context.Context, id string) error {
	if id == "" {
		return invalidf("id", "required")
	}
	found, err := s.deps.Store.DeactivateListing(ctx, id)
	if err != nil {
		return fmt.Errorf("deactivate listing %s: %w", id, err)
	}
	if !found {
		return fmt.Errorf("deactivate listing %s: %w", id, ErrListingNotFound)
	}
	s.deps.Logger.Info("[classifieds] Listing %s deactivated", id)
	return nil
}

// PriceHistory returns the recorded price changes of a listing, oldest
// first.
func (s *ClassifiedService) PriceHistory(ctx context.Context, id string) ([]*models.PriceHistoryEntry, error) {
	if id == "" {
		return nil, invalidf("id", "required")
	}
	l, err := s.deps.Store.FindListing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("price history %s: %w", id, err)
	}
	if l == nil {
		return nil, fmt.Errorf("price history %s: %w", id, ErrListingNotFound)
	}
	entries, err := s.deps.Store.ListPriceHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("price history %s: %w", id, err)
	}
	if entries == nil {
		entries = []*models.PriceHistoryEntry{}
	}
	return entries, nil
}

func checkPriceBounds(lo, hi *int64) error {
	switch {
	case lo != nil && *lo < 0:
		return invalidf("minPrice", "must not be negative")
	case hi != nil && *hi < 0:
		return invalidf("maxPrice", "must not be negative")
	case lo != nil && hi != nil && *lo > *hi:
		return invalid("maxPrice", errors.New("below minPrice"))
	}
	return nil
}
