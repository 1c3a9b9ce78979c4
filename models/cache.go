package models

import (
	"strings"
	"time"
)

// Domain names one of the three listing sources.
type Domain string

const (
	DomainClassifieds Domain = "classifieds"
	DomainTrains      Domain = "trains"
	DomainFlights     Domain = "flights"
)

// SourceGenerated tags records fabricated by the fallback generators.
const SourceGenerated = "generated"

// CacheKey identifies a searched route. SearchDate is only set for flights;
// classifieds use the location slug and category slug as the pair.
type CacheKey struct {
	Domain     Domain `json:"domain"`
	FromCity   string `json:"fromCity"`
	ToCity     string `json:"toCity"`
	SearchDate string `json:"searchDate,omitempty"`
}

func (k CacheKey) String() string {
	parts := []string{string(k.Domain), k.FromCity, k.ToCity}
	if k.SearchDate != "" {
		parts = append(parts, k.SearchDate)
	}
	return strings.Join(parts, "|")
}

// SearchCacheEntry records when a route was last scraped and how much it
// yielded. IsStale is informational; readers recompute staleness from
// LastSearched.
type SearchCacheEntry struct {
	Key          CacheKey  `json:"key"`
	ResultsCount int       `json:"resultsCount"`
	LastSearched time.Time `json:"lastSearched"`
	IsStale      bool      `json:"isStale"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
