package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"travel-scraper/metrics"
	"travel-scraper/models"
	"travel-scraper/storage"
	"travel-scraper/utils"
)

// RecordError is one record the store refused.
type RecordError struct {
	Key string
	Err error
}

// ReconcileResult counts what a batch did to the store.
type ReconcileResult struct {
	Created int
	Updated int
	Errors  []RecordError
}

// Reconciler writes normalized batches to the store. Per-record failures are
// collected and the batch continues; only storage.ErrUnavailable aborts it.
// After every completed batch the route's cache entry is refreshed once.
type Reconciler struct {
	store   storage.Store
	logger  *utils.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewReconciler creates a Reconciler over store. m may be nil.
func NewReconciler(store storage.Store, logger *utils.Logger, m *metrics.Metrics) *Reconciler {
	return &Reconciler{store: store, logger: logger, metrics: m, now: time.Now}
}

// ReconcileListings upserts listings by id, appending a price history entry
// before any update that changes the numeric price.
func (r *Reconciler) ReconcileListings(ctx context.Context, listings []*models.ClassifiedListing, key models.CacheKey) (ReconcileResult, error) {
	var res ReconcileResult
	for _, l := range listings {
		created, err := r.reconcileListing(ctx, l)
		if err != nil {
			if fatal := r.recordFailure(&res, key.Domain, l.ID, err); fatal != nil {
				return res, fatal
			}
			continue
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}
	return res, r.finish(ctx, key, len(listings), res)
}

func (r *Reconciler) reconcileListing(ctx context.Context, l *models.ClassifiedListing) (bool, error) {
	existing, err := r.store.FindListing(ctx, l.ID)
	if err != nil {
		return false, err
	}

	now := r.now()
	if existing != nil && existing.PriceRaw != l.PriceRaw {
		entry := &models.PriceHistoryEntry{
			ID:         uuid.NewString(),
			ListingID:  l.ID,
			Price:      l.PriceRaw,
			Currency:   models.CurrencyINR,
			RecordedAt: now,
		}
		if err := r.store.CreatePriceHistory(ctx, entry); err != nil {
			return false, fmt.Errorf("price history: %w", err)
		}
		r.logger.Debug("[reconciler] Listing %s price %d -> %d", l.ID, existing.PriceRaw, l.PriceRaw)
	}

	if existing != nil {
		l.CreatedAt = existing.CreatedAt
		// a country-wide scrape keeps the location a listing was first found under
		if l.LocationSlug == "" {
			l.LocationSlug = existing.LocationSlug
		}
	}
	l.IsActive = true
	l.UpdatedAt = now
	if err := r.store.UpsertListing(ctx, l); err != nil {
		return false, err
	}
	return existing == nil, nil
}

// ReconcileTrains upserts trains by number and station pair. Train fares
// keep no history.
func (r *Reconciler) ReconcileTrains(ctx context.Context, trains []*models.TrainRoute, key models.CacheKey) (ReconcileResult, error) {
	var res ReconcileResult
	for _, t := range trains {
		existing, err := r.store.FindTrain(ctx, t.Key())
		if err == nil {
			if existing != nil {
				t.CreatedAt = existing.CreatedAt
			}
			t.UpdatedAt = r.now()
			err = r.store.UpsertTrain(ctx, t)
		}
		if err != nil {
			if fatal := r.recordFailure(&res, key.Domain, t.TrainNumber, err); fatal != nil {
				return res, fatal
			}
			continue
		}
		if existing == nil {
			res.Created++
		} else {
			res.Updated++
		}
	}
	return res, r.finish(ctx, key, len(trains), res)
}

// ReconcileFlights replaces the stored flights of one route and date with
// the batch.
func (r *Reconciler) ReconcileFlights(ctx context.Context, flights []*models.FlightRoute, fromAirport, toAirport string, date time.Time, key models.CacheKey) (ReconcileResult, error) {
	var res ReconcileResult
	rep, err := r.store.ReplaceFlights(ctx, fromAirport, toAirport, date, flights)
	if err != nil {
		return res, fmt.Errorf("reconcile flights: replace %s-%s: %w", fromAirport, toAirport, err)
	}
	r.logger.Debug("[reconciler] Cleared %d flights for %s-%s on %s", rep.Deleted, fromAirport, toAirport, date.Format(models.DateLayout))

	for i, f := range flights {
		if err := rep.Errors[i]; err != nil {
			if fatal := r.recordFailure(&res, key.Domain, f.FlightNumber, err); fatal != nil {
				return res, fatal
			}
			continue
		}
		res.Created++
	}
	return res, r.finish(ctx, key, len(flights), res)
}

// recordFailure logs and counts a per-record error. It returns a non-nil
// error when the store is unreachable and the batch must stop.
func (r *Reconciler) recordFailure(res *ReconcileResult, domain models.Domain, key string, err error) error {
	if errors.Is(err, storage.ErrUnavailable) {
		r.logger.Error("[reconciler] Store unavailable, aborting %s batch: %v", domain, err)
		return fmt.Errorf("reconcile %s: %w", domain, err)
	}
	r.logger.Warn("[reconciler] Failed to save %s record %s: %v", domain, key, err)
	res.Errors = append(res.Errors, RecordError{Key: key, Err: err})
	return nil
}

// finish refreshes the cache entry for the batch's route.
func (r *Reconciler) finish(ctx context.Context, key models.CacheKey, batchSize int, res ReconcileResult) error {
	domain := string(key.Domain)
	r.metrics.AddRecords(domain, "created", res.Created)
	r.metrics.AddRecords(domain, "updated", res.Updated)
	r.metrics.AddRecords(domain, "error", len(res.Errors))

	now := r.now()
	entry := &models.SearchCacheEntry{
		Key:          key,
		ResultsCount: batchSize,
		LastSearched: now,
		IsStale:      false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := r.store.UpsertCacheEntry(ctx, entry); err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			return fmt.Errorf("reconcile %s: cache entry: %w", domain, err)
		}
		r.logger.Warn("[reconciler] Failed to refresh cache entry %s: %v", key, err)
	}

	r.logger.Info("[reconciler] %s %s: %d created, %d updated, %d failed",
		domain, key, res.Created, res.Updated, len(res.Errors))
	return nil
}
