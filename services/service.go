package services

import (
	"errors"
	"time"

	"travel-scraper/extract"
	"travel-scraper/lookup"
	"travel-scraper/metrics"
	"travel-scraper/models"
	"travel-scraper/storage"
	"travel-scraper/utils"
)

var (
	// ErrUpstream wraps a classifieds fetch failure. Train and flight
	// fetches degrade to generated data instead.
	ErrUpstream = errors.New("upstream fetch failed")
	// ErrListingNotFound is returned for operations on an unknown listing id.
	ErrListingNotFound = errors.New("listing not found")
)

// RawSink receives every raw batch before normalization. storage.CSVSink
// is the production implementation.
type RawSink interface {
	Export(domain string, records []storage.CSVRecord) error
}

// Deps are the collaborators shared by the domain services.
type Deps struct {
	Store      storage.Store
	Normalizer *Normalizer
	Reconciler *Reconciler
	Logger     *utils.Logger
	Metrics    *metrics.Metrics
	// Sink is optional.
	Sink RawSink
}

// Options tune one domain service.
type Options struct {
	TTL      time.Duration
	MaxItems int
	MemoSize int
	MemoTTL  time.Duration
}

func exportRaw[T storage.CSVRecord](d Deps, domain models.Domain, items []T) {
	if d.Sink == nil || len(items) == 0 {
		return
	}
	records := make([]storage.CSVRecord, len(items))
	for i, it := range items {
		records[i] = it
	}
	if err := d.Sink.Export(string(domain), records); err != nil {
		d.Logger.Warn("[%s] Raw export failed: %v", domain, err)
	}
}

// resolvePair resolves both ends of a route, reporting which field failed.
func resolvePair(kind lookup.Kind, from, to string) (lookup.Resolved, lookup.Resolved, error) {
	if lookup.Normalize(from) == "" {
		return lookup.Resolved{}, lookup.Resolved{}, invalidf("fromCity", "required")
	}
	if lookup.Normalize(to) == "" {
		return lookup.Resolved{}, lookup.Resolved{}, invalidf("toCity", "required")
	}
	f, err := lookup.Resolve(kind, from)
	if err != nil {
		return lookup.Resolved{}, lookup.Resolved{}, invalid("fromCity", err)
	}
	t, err := lookup.Resolve(kind, to)
	if err != nil {
		return lookup.Resolved{}, lookup.Resolved{}, invalid("toCity", err)
	}
	if f.Code == t.Code {
		return lookup.Resolved{}, lookup.Resolved{}, invalidf("toCity", "same as fromCity (%s)", f.Code)
	}
	return f, t, nil
}

func parseDate(field, s string, required bool) (time.Time, error) {
	if s == "" {
		if required {
			return time.Time{}, invalidf(field, "required")
		}
		return time.Time{}, nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, invalidf(field, "want YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

func checkClock(field, s string) error {
	if s == "" {
		return nil
	}
	if _, ok := extract.ClockMinutes(s); !ok {
		return invalidf(field, "want HH:MM, got %q", s)
	}
	return nil
}

func searchResult[T any](items []T, fr Freshness) *models.SearchResult[T] {
	if items == nil {
		items = []T{}
	}
	return &models.SearchResult[T]{
		Items:         items,
		CacheAgeHours: fr.CacheAgeHours,
		IsStale:       fr.IsStale,
		NeedsScraping: fr.NeedsScraping,
	}
}
