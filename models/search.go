package models

import "fmt"

// SortKey orders search results ascending.
type SortKey string

const (
	SortPrice     SortKey = "price"
	SortDuration  SortKey = "duration"
	SortDeparture SortKey = "departure"
	SortNewest    SortKey = "newest"
)

// ParseSortKey accepts the sort keys a domain supports. The empty string
// selects def.
func ParseSortKey(s string, def SortKey, allowed ...SortKey) (SortKey, error) {
	if s == "" {
		return def, nil
	}
	if s == "departureTime" {
		s = string(SortDeparture)
	}
	for _, k := range allowed {
		if SortKey(s) == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("unsupported sort key %q", s)
}

// TrainFilters narrows a train search. Zero values disable a filter.
type TrainFilters struct {
	TrainType       TrainType `json:"trainType,omitempty"`
	DepartureAfter  string    `json:"departureAfter,omitempty"`
	DepartureBefore string    `json:"departureBefore,omitempty"`
	MaxPrice        *int      `json:"maxPrice,omitempty"`
}

// FlightFilters narrows a flight search. Zero values disable a filter.
type FlightFilters struct {
	Airline         string `json:"airline,omitempty"`
	Stops           *int   `json:"stops,omitempty"`
	MaxPrice        *int   `json:"maxPrice,omitempty"`
	DepartureAfter  string `json:"departureAfter,omitempty"`
	DepartureBefore string `json:"departureBefore,omitempty"`
}

// ClassifiedFilters narrows a classifieds search.
type ClassifiedFilters struct {
	City     string `json:"city,omitempty"`
	MinPrice *int64 `json:"minPrice,omitempty"`
	MaxPrice *int64 `json:"maxPrice,omitempty"`
}

// RouteScrapeRequest asks for a fresh scrape of a train or flight route.
// Date is YYYY-MM-DD and required for flights.
type RouteScrapeRequest struct {
	FromCity string `json:"fromCity"`
	ToCity   string `json:"toCity"`
	Date     string `json:"date,omitempty"`
	MaxItems int    `json:"maxItems,omitempty"`
}

// ClassifiedScrapeRequest asks for a fresh classifieds scrape.
type ClassifiedScrapeRequest struct {
	Location string `json:"location,omitempty"`
	Category string `json:"category,omitempty"`
	Subtype  string `json:"subtype,omitempty"`
	MinPrice *int64 `json:"minPrice,omitempty"`
	MaxPrice *int64 `json:"maxPrice,omitempty"`
	MaxPages int    `json:"maxPages,omitempty"`
}

// TrainSearchRequest reads cached train routes. A Date restricts results to
// trains running on that weekday.
type TrainSearchRequest struct {
	FromCity string       `json:"fromCity"`
	ToCity   string       `json:"toCity"`
	Date     string       `json:"date,omitempty"`
	SortBy   string       `json:"sortBy,omitempty"`
	Filters  TrainFilters `json:"filters"`
}

// FlightSearchRequest reads cached flights for a route and date.
type FlightSearchRequest struct {
	FromCity string        `json:"fromCity"`
	ToCity   string        `json:"toCity"`
	Date     string        `json:"date"`
	SortBy   string        `json:"sortBy,omitempty"`
	Filters  FlightFilters `json:"filters"`
}

// ClassifiedSearchRequest reads cached listings for a location and category.
type ClassifiedSearchRequest struct {
	Location string            `json:"location,omitempty"`
	Category string            `json:"category,omitempty"`
	SortBy   string            `json:"sortBy,omitempty"`
	Filters  ClassifiedFilters `json:"filters"`
}

// ScrapeResult reports what a scrape fetched and how it was reconciled.
type ScrapeResult[T any] struct {
	Items          []T    `json:"items"`
	SavedCount     int    `json:"savedCount"`
	UpdatedCount   int    `json:"updatedCount"`
	ErrorCount     int    `json:"errorCount"`
	Source         string `json:"source"`
	Fallback       bool   `json:"fallback"`
	FallbackReason string `json:"fallbackReason,omitempty"`
}

// SearchResult carries stored rows with the route's cache freshness.
// CacheAgeHours is nil when the route was never scraped.
type SearchResult[T any] struct {
	Items         []T  `json:"items"`
	CacheAgeHours *int `json:"cacheAgeHours"`
	IsStale       bool `json:"isStale"`
	NeedsScraping bool `json:"needsScraping"`
}
