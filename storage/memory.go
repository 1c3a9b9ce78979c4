package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"travel-scraper/models"
)

// MemoryStore keeps every domain in process memory with the same key
// uniqueness as the Postgres schema. It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	listings map[string]*models.ClassifiedListing
	history  map[string][]*models.PriceHistoryEntry
	trains   map[models.TrainKey]*models.TrainRoute
	flights  []*models.FlightRoute
	cache    map[models.CacheKey]*models.SearchCacheEntry
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		listings: make(map[string]*models.ClassifiedListing),
		history:  make(map[string][]*models.PriceHistoryEntry),
		trains:   make(map[models.TrainKey]*models.TrainRoute),
		cache:    make(map[models.CacheKey]*models.SearchCacheEntry),
	}
}

func (m *MemoryStore) FindListing(_ context.Context, id string) (*models.ClassifiedListing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, nil
	}
	return cloneListing(l), nil
}

func (m *MemoryStore) UpsertListing(_ context.Context, l *models.ClassifiedListing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := cloneListing(l)
	if prev, ok := m.listings[l.ID]; ok {
		stored.CreatedAt = prev.CreatedAt
	}
	m.listings[l.ID] = stored
	return nil
}

func (m *MemoryStore) DeactivateListing(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return false, nil
	}
	l.IsActive = false
	l.UpdatedAt = time.Now()
	return true, nil
}

func (m *MemoryStore) SearchListings(_ context.Context, q ListingQuery) ([]*models.ClassifiedListing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.ClassifiedListing
	for _, l := range m.listings {
		if q.ActiveOnly && !l.IsActive {
			continue
		}
		if q.Location != "" && l.LocationSlug != q.Location && !strings.EqualFold(l.City, q.Location) {
			continue
		}
		if q.City != "" && !strings.EqualFold(l.City, q.City) {
			continue
		}
		if q.Category != "" && !strings.EqualFold(l.Category, q.Category) {
			continue
		}
		if q.MinPrice != nil && l.PriceRaw < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && l.PriceRaw > *q.MaxPrice {
			continue
		}
		out = append(out, cloneListing(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *MemoryStore) CreatePriceHistory(_ context.Context, e *models.PriceHistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := *e
	m.history[e.ListingID] = append(m.history[e.ListingID], &entry)
	return nil
}

func (m *MemoryStore) ListPriceHistory(_ context.Context, listingID string) ([]*models.PriceHistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := m.history[listingID]
	out := make([]*models.PriceHistoryEntry, len(entries))
	for i, e := range entries {
		entry := *e
		out[i] = &entry
	}
	return out, nil
}

func (m *MemoryStore) FindTrain(_ context.Context, key models.TrainKey) (*models.TrainRoute, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.trains[key]
	if !ok {
		return nil, nil
	}
	return cloneTrain(t), nil
}

func (m *MemoryStore) UpsertTrain(_ context.Context, t *models.TrainRoute) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := cloneTrain(t)
	if prev, ok := m.trains[t.Key()]; ok {
		stored.CreatedAt = prev.CreatedAt
	}
	m.trains[t.Key()] = stored
	return nil
}

func (m *MemoryStore) ListTrains(_ context.Context, fromStation, toStation string) ([]*models.TrainRoute, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.TrainRoute
	for _, t := range m.trains {
		if t.IsActive && t.FromStation == fromStation && t.ToStation == toStation {
			out = append(out, cloneTrain(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartureTime < out[j].DepartureTime })
	return out, nil
}

func (m *MemoryStore) ReplaceFlights(_ context.Context, fromAirport, toAirport string, date time.Time, flights []*models.FlightRoute) (FlightReplacement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := FlightReplacement{Errors: make([]error, len(flights))}
	kept := m.flights[:0]
	keys := make(map[models.FlightKey]struct{}, len(m.flights))
	for _, f := range m.flights {
		if flightMatches(f, fromAirport, toAirport, date) {
			res.Deleted++
			continue
		}
		kept = append(kept, f)
		keys[f.Key()] = struct{}{}
	}
	m.flights = kept

	for i, f := range flights {
		if _, dup := keys[f.Key()]; dup {
			res.Errors[i] = fmt.Errorf("insert flight %s: %w", f.FlightNumber, ErrDuplicateKey)
			continue
		}
		keys[f.Key()] = struct{}{}
		flight := *f
		m.flights = append(m.flights, &flight)
	}
	return res, nil
}

func (m *MemoryStore) ListFlights(_ context.Context, fromAirport, toAirport string, date time.Time) ([]*models.FlightRoute, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.FlightRoute
	for _, f := range m.flights {
		if f.IsActive && flightMatches(f, fromAirport, toAirport, date) {
			flight := *f
			out = append(out, &flight)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PriceEconomy < out[j].PriceEconomy })
	return out, nil
}

func (m *MemoryStore) FindCacheEntry(_ context.Context, key models.CacheKey) (*models.SearchCacheEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.cache[key]
	if !ok {
		return nil, nil
	}
	entry := *e
	return &entry, nil
}

func (m *MemoryStore) UpsertCacheEntry(_ context.Context, e *models.SearchCacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := *e
	if prev, ok := m.cache[e.Key]; ok {
		entry.CreatedAt = prev.CreatedAt
	}
	m.cache[e.Key] = &entry
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}

func flightMatches(f *models.FlightRoute, fromAirport, toAirport string, date time.Time) bool {
	return f.FromAirport == fromAirport && f.ToAirport == toAirport &&
		f.FlightDate.Format(models.DateLayout) == date.Format(models.DateLayout)
}

func cloneListing(l *models.ClassifiedListing) *models.ClassifiedListing {
	c := *l
	c.Images = append([]string(nil), l.Images...)
	return &c
}

func cloneTrain(t *models.TrainRoute) *models.TrainRoute {
	c := *t
	c.RunningDays = append([]string(nil), t.RunningDays...)
	return &c
}
