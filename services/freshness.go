package services

import (
	"time"

	"travel-scraper/models"
)

// Freshness is the TTL verdict for one cached route.
type Freshness struct {
	// CacheAgeHours is nil when the route was never scraped.
	CacheAgeHours *int
	IsStale       bool
	NeedsScraping bool
}

// EvaluateFreshness computes the age of entry in whole hours and compares it
// with ttl. The stored IsStale flag is ignored.
func EvaluateFreshness(entry *models.SearchCacheEntry, ttl time.Duration, now time.Time) Freshness {
	if entry == nil {
		return Freshness{IsStale: true, NeedsScraping: true}
	}

	age := int(now.Sub(entry.LastSearched) / time.Hour)
	if age < 0 {
		age = 0
	}
	stale := float64(age) > ttl.Hours()
	return Freshness{CacheAgeHours: &age, IsStale: stale, NeedsScraping: stale}
}
