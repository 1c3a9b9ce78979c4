package olx

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"travel-scraper/models"
)

type searchPage struct {
	Data []json.RawMessage `json:"data"`
}

type searchItem struct {
	ID          any    `json:"id"`
	AdID        any    `json:"ad_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      *struct {
		Status string `json:"status"`
	} `json:"status"`
	Category *struct {
		Name string `json:"name"`
	} `json:"category"`
	Price *struct {
		Value struct {
			Raw     any    `json:"raw"`
			Display string `json:"display"`
		} `json:"value"`
	} `json:"price"`
	LocationsResolved struct {
		City  string `json:"ADMIN_LEVEL_3_name"`
		State string `json:"ADMIN_LEVEL_1_name"`
	} `json:"locations_resolved"`
	Locations []struct {
		Lat any `json:"lat"`
		Lon any `json:"lon"`
	} `json:"locations"`
	Images []struct {
		ExternalID string `json:"external_id"`
	} `json:"images"`
	Parameters []struct {
		Key       string `json:"key"`
		Value     any    `json:"value"`
		ValueName string `json:"value_name"`
	} `json:"parameters"`
	UserName          string `json:"user_name"`
	IsKYCVerifiedUser bool   `json:"is_kyc_verified_user"`
	CreatedAtFirst    string `json:"created_at_first"`
	DisplayDate       string `json:"display_date"`
}

func (it *searchItem) id() string {
	if id := stringify(it.ID); id != "" {
		return id
	}
	return stringify(it.AdID)
}

func (it *searchItem) active() bool {
	return stringify(it.AdID) != "" && it.Status != nil && it.Status.Status == "active"
}

func (it *searchItem) priceRaw() int64 {
	if it.Price == nil {
		return 0
	}
	n, _ := toFloat(it.Price.Value.Raw)
	return int64(n)
}

func (it *searchItem) param(key string) (value, valueName string) {
	for _, p := range it.Parameters {
		if p.Key == key {
			return stringify(p.Value), p.ValueName
		}
	}
	return "", ""
}

func (it *searchItem) toRaw(fallbackCategory string, scrapedAt time.Time) models.RawClassified {
	raw := models.RawClassified{
		ID:             it.id(),
		AdID:           stringify(it.AdID),
		Title:          it.Title,
		Description:    it.Description,
		CategoryName:   fallbackCategory,
		PriceRaw:       it.priceRaw(),
		City:           it.LocationsResolved.City,
		State:          it.LocationsResolved.State,
		SellerName:     it.UserName,
		SellerVerified: it.IsKYCVerifiedUser,
		PublishedAt:    it.CreatedAtFirst,
		ScrapedAt:      scrapedAt,
	}
	if it.Category != nil && it.Category.Name != "" {
		raw.CategoryName = it.Category.Name
	}
	if it.Price != nil {
		raw.PriceDisplay = it.Price.Value.Display
	}
	if raw.PublishedAt == "" {
		raw.PublishedAt = it.DisplayDate
	}
	raw.Rooms, _ = it.param("rooms")
	raw.Bathrooms, _ = it.param("bathrooms")
	_, raw.Furnishing = it.param("furnishing")

	for _, img := range it.Images {
		if img.ExternalID != "" {
			raw.ImageIDs = append(raw.ImageIDs, img.ExternalID)
		}
	}
	if len(it.Locations) > 0 {
		lat, okLat := toFloat(it.Locations[0].Lat)
		lon, okLon := toFloat(it.Locations[0].Lon)
		if okLat && okLon {
			raw.Lat, raw.Lon, raw.HasCoords = lat, lon, true
		}
	}
	return raw
}

// stringify renders JSON scalars that arrive as either strings or numbers.
func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
