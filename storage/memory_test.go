package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"travel-scraper/models"
)

func TestMemoryStoreListings(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	got, err := s.FindListing(ctx, "missing")
	if err != nil || got != nil {
		t.Fatalf("missing listing: got %v, %v", got, err)
	}

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := &models.ClassifiedListing{ID: "1", Title: "2 BHK", City: "Mumbai", Category: "For Rent: Houses & Apartments",
		PriceRaw: 25000, IsActive: true, CreatedAt: created, UpdatedAt: created, Images: []string{"a"}}
	if err := s.UpsertListing(ctx, l); err != nil {
		t.Fatal(err)
	}

	l2 := *l
	l2.PriceRaw = 27000
	l2.CreatedAt = created.Add(time.Hour)
	if err := s.UpsertListing(ctx, &l2); err != nil {
		t.Fatal(err)
	}

	got, _ = s.FindListing(ctx, "1")
	if got.PriceRaw != 27000 {
		t.Errorf("price = %d, want 27000", got.PriceRaw)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("upsert overwrote CreatedAt: %v", got.CreatedAt)
	}

	got.Images[0] = "mutated"
	again, _ := s.FindListing(ctx, "1")
	if again.Images[0] != "a" {
		t.Error("FindListing returned an alias of stored data")
	}

	maxPrice := int64(26000)
	res, _ := s.SearchListings(ctx, ListingQuery{City: "mumbai", MaxPrice: &maxPrice, ActiveOnly: true})
	if len(res) != 0 {
		t.Errorf("price filter kept %d listings", len(res))
	}
	res, _ = s.SearchListings(ctx, ListingQuery{City: "mumbai", Category: "for rent: houses & apartments", ActiveOnly: true})
	if len(res) != 1 {
		t.Errorf("expected 1 listing, got %d", len(res))
	}

	ok, _ := s.DeactivateListing(ctx, "1")
	if !ok {
		t.Fatal("deactivate reported not found")
	}
	res, _ = s.SearchListings(ctx, ListingQuery{ActiveOnly: true})
	if len(res) != 0 {
		t.Error("inactive listing returned by active-only search")
	}
	if ok, _ := s.DeactivateListing(ctx, "nope"); ok {
		t.Error("deactivating a missing listing reported success")
	}
}

func TestMemoryStorePriceHistory(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for i, p := range []int64{100, 120} {
		_ = s.CreatePriceHistory(ctx, &models.PriceHistoryEntry{
			ID: string(rune('a' + i)), ListingID: "1", Price: p, Currency: models.CurrencyINR,
		})
	}
	entries, _ := s.ListPriceHistory(ctx, "1")
	if len(entries) != 2 || entries[0].Price != 100 || entries[1].Price != 120 {
		t.Errorf("unexpected history: %+v", entries)
	}
	if entries, _ := s.ListPriceHistory(ctx, "2"); len(entries) != 0 {
		t.Errorf("expected empty history, got %d", len(entries))
	}
}

func TestMemoryStoreTrainsUniqueByKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	train := &models.TrainRoute{TrainNumber: "12951", FromStation: "NDLS", ToStation: "BCT", DepartureTime: "16:55", IsActive: true}
	_ = s.UpsertTrain(ctx, train)
	_ = s.UpsertTrain(ctx, train)

	other := *train
	other.FromStation = "NZM"
	_ = s.UpsertTrain(ctx, &other)

	trains, _ := s.ListTrains(ctx, "NDLS", "BCT")
	if len(trains) != 1 {
		t.Fatalf("expected one train for the leg, got %d", len(trains))
	}
	found, _ := s.FindTrain(ctx, models.TrainKey{Number: "12951", FromStation: "NZM", ToStation: "BCT"})
	if found == nil {
		t.Error("second leg of the same train number was not stored")
	}
}

func TestMemoryStoreFlightReplacement(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	nextDay := day.AddDate(0, 0, 1)

	flight := func(number string, d time.Time) *models.FlightRoute {
		return &models.FlightRoute{
			ID: number + d.Format(models.DateLayout), FlightNumber: number, Airline: "IndiGo",
			FromAirport: "DEL", ToAirport: "BOM", FlightDate: d, PriceEconomy: 5000, IsActive: true,
		}
	}

	if _, err := s.ReplaceFlights(ctx, "DEL", "BOM", day, []*models.FlightRoute{flight("6E 1", day), flight("6E 2", day)}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ReplaceFlights(ctx, "DEL", "BOM", nextDay, []*models.FlightRoute{flight("6E 1", nextDay)}); err != nil {
		t.Fatal(err)
	}

	res, err := s.ReplaceFlights(ctx, "DEL", "BOM", day, []*models.FlightRoute{flight("6E 3", day)})
	if err != nil {
		t.Fatal(err)
	}
	if res.Deleted != 2 {
		t.Errorf("deleted %d flights, want 2", res.Deleted)
	}
	if flights, _ := s.ListFlights(ctx, "DEL", "BOM", day); len(flights) != 1 || flights[0].FlightNumber != "6E 3" {
		t.Errorf("flights after replace = %+v, want only 6E 3", flights)
	}
	if flights, _ := s.ListFlights(ctx, "DEL", "BOM", nextDay); len(flights) != 1 {
		t.Errorf("other date affected: %d flights", len(flights))
	}
}

func TestMemoryStoreRejectsDuplicateFlightKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	batch := []*models.FlightRoute{
		{ID: "a", FlightNumber: "6E 2134", Airline: "IndiGo", FromAirport: "DEL", ToAirport: "BOM", FlightDate: day, IsActive: true},
		{ID: "b", FlightNumber: "6E 2134", Airline: "IndiGo", FromAirport: "DEL", ToAirport: "BOM", FlightDate: day, IsActive: true},
		{ID: "c", FlightNumber: "6E 2134", Airline: "Air India", FromAirport: "DEL", ToAirport: "BOM", FlightDate: day, IsActive: true},
	}

	res, err := s.ReplaceFlights(ctx, "DEL", "BOM", day, batch)
	if err != nil {
		t.Fatal(err)
	}
	if res.Errors[0] != nil || res.Errors[2] != nil {
		t.Errorf("distinct keys rejected: %v", res.Errors)
	}
	if !errors.Is(res.Errors[1], ErrDuplicateKey) {
		t.Errorf("duplicate error = %v, want ErrDuplicateKey", res.Errors[1])
	}
	if flights, _ := s.ListFlights(ctx, "DEL", "BOM", day); len(flights) != 2 {
		t.Errorf("stored %d flights, want 2", len(flights))
	}
}

func TestMemoryStoreSearchByLocation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()
	for _, l := range []*models.ClassifiedListing{
		{ID: "olx_1", Category: "pg", City: "Bengaluru", LocationSlug: "bangalore", IsActive: true, UpdatedAt: now},
		{ID: "olx_2", Category: "pg", City: "Mumbai", LocationSlug: "mumbai", IsActive: true, UpdatedAt: now},
		{ID: "olx_3", Category: "pg", City: "Pune", IsActive: true, UpdatedAt: now},
	} {
		if err := s.UpsertListing(ctx, l); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		location string
		want     int
	}{
		{"bangalore", 1},
		{"pune", 1},
		{"delhi", 0},
		{"", 3},
	}
	for _, tt := range tests {
		got, err := s.SearchListings(ctx, ListingQuery{Location: tt.location})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != tt.want {
			t.Errorf("location %q: got %d listings, want %d", tt.location, len(got), tt.want)
		}
	}
}

func TestMemoryStoreCacheEntry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	key := models.CacheKey{Domain: models.DomainTrains, FromCity: "New Delhi", ToCity: "Mumbai"}

	if e, _ := s.FindCacheEntry(ctx, key); e != nil {
		t.Fatal("expected no cache entry")
	}

	first := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	_ = s.UpsertCacheEntry(ctx, &models.SearchCacheEntry{Key: key, ResultsCount: 3, LastSearched: first, CreatedAt: first})
	_ = s.UpsertCacheEntry(ctx, &models.SearchCacheEntry{Key: key, ResultsCount: 5, LastSearched: first.Add(time.Hour), CreatedAt: first.Add(time.Hour)})

	e, _ := s.FindCacheEntry(ctx, key)
	if e.ResultsCount != 5 || !e.LastSearched.Equal(first.Add(time.Hour)) {
		t.Errorf("entry not updated: %+v", e)
	}
	if !e.CreatedAt.Equal(first) {
		t.Errorf("CreatedAt changed on update: %v", e.CreatedAt)
	}
}
