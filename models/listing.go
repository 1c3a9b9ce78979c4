package models

import "time"

// RawClassified holds the upstream fields of one classifieds search hit
// before normalization. Values are kept as the API returned them.
type RawClassified struct {
	ID             string
	AdID           string
	Title          string
	Description    string
	CategoryName   string
	PriceDisplay   string
	PriceRaw       int64
	City           string
	State          string
	Rooms          string
	Bathrooms      string
	Furnishing     string
	ImageIDs       []string
	SellerName     string
	SellerVerified bool
	PublishedAt    string
	Lat            float64
	Lon            float64
	HasCoords      bool
	ScrapedAt      time.Time
}

// ClassifiedListing is the canonical classifieds record, keyed by the
// source-assigned ID.
type ClassifiedListing struct {
	ID             string    `json:"id"`
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Price          string    `json:"price"`
	PriceRaw       int64     `json:"priceRaw"`
	Location       string    `json:"location"`
	LocationSlug   string    `json:"locationSlug"`
	City           string    `json:"city"`
	State          string    `json:"state"`
	Geohash        string    `json:"geohash,omitempty"`
	Bedrooms       *int      `json:"bedrooms"`
	Bathrooms      *int      `json:"bathrooms"`
	Furnishing     *string   `json:"furnishing"`
	Images         []string  `json:"images"`
	MainImage      *string   `json:"mainImage"`
	SellerName     string    `json:"sellerName"`
	SellerVerified bool      `json:"sellerVerified"`
	PublishedAt    time.Time `json:"publishedAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// PriceHistoryEntry records a listing price observed at a point in time.
// Entries are append-only.
type PriceHistoryEntry struct {
	ID         string    `json:"id"`
	ListingID  string    `json:"listingId"`
	Price      int64     `json:"price"`
	Currency   string    `json:"currency"`
	RecordedAt time.Time `json:"recordedAt"`
}

// CurrencyINR is the only currency the classifieds source quotes.
const CurrencyINR = "INR"
