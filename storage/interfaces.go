package storage

import (
	"context"
	"errors"
	"time"

	"travel-scraper/models"
)

var (
	// ErrUnavailable marks a store that cannot be reached at all. Callers
	// abort the batch instead of counting a per-record failure.
	ErrUnavailable = errors.New("storage: unavailable")
	// ErrDuplicateKey is returned when a write would repeat a natural key.
	ErrDuplicateKey = errors.New("storage: duplicate natural key")
)

// ListingQuery selects stored listings. Empty fields do not filter.
// Location matches listings scraped under that location slug or whose city
// equals it.
type ListingQuery struct {
	// Location matches the scraped location slug, or a city equal to it.
	Location   string
	City       string
	Category   string
	MinPrice   *int64
	MaxPrice   *int64
	ActiveOnly bool
}

// ListingStore persists classifieds listings and their price history.
// Lookups of a missing record return (nil, nil).
type ListingStore interface {
	FindListing(ctx context.Context, id string) (*models.ClassifiedListing, error)
	UpsertListing(ctx context.Context, l *models.ClassifiedListing) error
	DeactivateListing(ctx context.Context, id string) (bool, error)
	SearchListings(ctx context.Context, q ListingQuery) ([]*models.ClassifiedListing, error)
	CreatePriceHistory(ctx context.Context, e *models.PriceHistoryEntry) error
	ListPriceHistory(ctx context.Context, listingID string) ([]*models.PriceHistoryEntry, error)
}

// TrainStore persists train routes keyed by number and station pair.
type TrainStore interface {
	FindTrain(ctx context.Context, key models.TrainKey) (*models.TrainRoute, error)
	UpsertTrain(ctx context.Context, t *models.TrainRoute) error
	ListTrains(ctx context.Context, fromStation, toStation string) ([]*models.TrainRoute, error)
}

// FlightStore persists flights. Rows for a route and date are replaced as a
// set, so there is no per-flight update.
type FlightStore interface {
	// ReplaceFlights atomically deletes the flights of one route and date
	// and inserts flights. It returns one error slot per flight; a failed
	// insert does not undo the others. A non-nil error means nothing was
	// replaced.
	ReplaceFlights(ctx context.Context, fromAirport, toAirport string, date time.Time, flights []*models.FlightRoute) (FlightReplacement, error)
	ListFlights(ctx context.Context, fromAirport, toAirport string, date time.Time) ([]*models.FlightRoute, error)
}

// FlightReplacement reports a ReplaceFlights call. Errors[i] is the
// failure of flights[i], or nil.
type FlightReplacement struct {
	Deleted int64
	Errors  []error
}

// CacheStore records when each route was last scraped.
type CacheStore interface {
	FindCacheEntry(ctx context.Context, key models.CacheKey) (*models.SearchCacheEntry, error)
	UpsertCacheEntry(ctx context.Context, e *models.SearchCacheEntry) error
}

// Store is everything the services persist.
type Store interface {
	ListingStore
	TrainStore
	FlightStore
	CacheStore
	Close() error
}
