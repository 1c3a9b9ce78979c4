package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"travel-scraper/extract"
	"travel-scraper/lookup"
	"travel-scraper/models"
	"travel-scraper/utils"
)

const (
	listingURLTemplate = "https://www.olx.in/item/%s"
	imageURLTemplate   = "https://apollo.olx.in/v1/files/%s/image"
	listingLifetime    = 30 * 24 * time.Hour
	geohashPrecision   = 7

	defaultPriceDisplay = "Contact for Price"
	defaultSeller       = "Unknown"
	defaultAirline      = "Unknown Airline"
	defaultDuration     = "N/A"
)

var countRegexp = regexp.MustCompile(`\d+`)

// Normalizer maps raw fetcher output onto the canonical records. Records
// missing a natural key component are dropped; the rest of the batch
// carries on.
type Normalizer struct {
	logger *utils.Logger
	now    func() time.Time
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger, now: time.Now}
}

// Classifieds normalizes a classifieds batch. A non-empty category replaces
// the upstream category name so stored listings match the searched scope.
// location is the slug the batch was scraped under, "" for the whole country.
func (n *Normalizer) Classifieds(raw []models.RawClassified, location, category string) []*models.ClassifiedListing {
	now := n.now()
	seen := make(map[string]struct{})
	result := make([]*models.ClassifiedListing, 0, len(raw))

	for _, r := range raw {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			n.logger.Warn("[normalizer] Dropping listing without id: %s", r.Title)
			continue
		}
		if _, dup := seen[id]; dup {
			n.logger.Debug("[normalizer] Duplicate listing %s skipped", id)
			continue
		}
		seen[id] = struct{}{}

		l := &models.ClassifiedListing{
			ID:             id,
			URL:            fmt.Sprintf(listingURLTemplate, id),
			Title:          extract.NormaliseText(r.Title),
			Description:    strings.TrimSpace(r.Description),
			Category:       extract.NormaliseText(r.CategoryName),
			Price:          extract.NormaliseText(r.PriceDisplay),
			PriceRaw:       r.PriceRaw,
			LocationSlug:   location,
			City:           titleCase(r.City),
			State:          titleCase(r.State),
			Bedrooms:       parseCount(r.Rooms),
			Bathrooms:      parseCount(r.Bathrooms),
			Furnishing:     optionalText(r.Furnishing),
			SellerName:     extract.NormaliseText(r.SellerName),
			SellerVerified: r.SellerVerified,
			PublishedAt:    parsePublished(r.PublishedAt, now),
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if category != "" {
			l.Category = category
		}
		if l.Price == "" {
			l.Price = defaultPriceDisplay
		}
		if l.SellerName == "" {
			l.SellerName = defaultSeller
		}
		l.Location = joinNonEmpty(", ", l.City, l.State)
		l.ExpiresAt = l.PublishedAt.Add(listingLifetime)

		l.Images = make([]string, 0, len(r.ImageIDs))
		for _, imgID := range r.ImageIDs {
			if imgID = strings.TrimSpace(imgID); imgID != "" {
				l.Images = append(l.Images, fmt.Sprintf(imageURLTemplate, imgID))
			}
		}
		if len(l.Images) > 0 {
			main := l.Images[0]
			l.MainImage = &main
		}
		if r.HasCoords {
			l.Geohash = geohash.EncodeWithPrecision(r.Lat, r.Lon, geohashPrecision)
		}

		result = append(result, l)
	}

	n.logger.Info("[normalizer] Listings: %d -> %d (dropped %d)", len(raw), len(result), len(raw)-len(result))
	return result
}

// Trains normalizes a train batch for the from/to stations.
func (n *Normalizer) Trains(raw []models.RawTrain, from, to lookup.Resolved) []*models.TrainRoute {
	now := n.now()
	seen := make(map[models.TrainKey]struct{})
	result := make([]*models.TrainRoute, 0, len(raw))

	for _, r := range raw {
		number := extract.ExtractTrainNumber(r.Number)
		if number == "" || from.Code == "" || to.Code == "" {
			n.logger.Warn("[normalizer] Dropping train without number or stations: %q", r.Name)
			continue
		}

		name := extract.NormalizeTrainName(r.Name)
		if name == "" {
			name = "Train " + number
		}
		duration := extract.NormaliseText(r.Duration)
		if duration == "" {
			duration = defaultDuration
		}

		t := &models.TrainRoute{
			TrainNumber:   number,
			TrainName:     name,
			TrainType:     lookup.ClassifyTrainType(name),
			FromStation:   from.Code,
			FromCity:      from.City,
			ToStation:     to.Code,
			ToCity:        to.City,
			DepartureTime: extract.CleanTime(r.Departure),
			ArrivalTime:   extract.CleanTime(r.Arrival),
			Duration:      duration,
			RunningDays:   extract.ParseRunningDays(r.Days),
			PriceGeneral:  parseFare(r.PriceGeneral),
			PriceSleeper:  parseFare(r.PriceSleeper),
			PriceAC3:      parseFare(r.PriceAC3),
			PriceAC2:      parseFare(r.PriceAC2),
			PriceAC1:      parseFare(r.PriceAC1),
			Source:        r.Source,
			SourceURL:     r.SourceURL,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if _, dup := seen[t.Key()]; dup {
			continue
		}
		seen[t.Key()] = struct{}{}
		result = append(result, t)
	}

	n.logger.Info("[normalizer] Trains: %d -> %d", len(raw), len(result))
	return result
}

// Flights normalizes a flight batch for the from/to airports on date.
func (n *Normalizer) Flights(raw []models.RawFlight, from, to lookup.Resolved, date time.Time) []*models.FlightRoute {
	if from.Code == "" || to.Code == "" || date.IsZero() {
		n.logger.Warn("[normalizer] Dropping %d flights: route or date missing", len(raw))
		return nil
	}
	now := n.now()
	day := calendarDate(date)
	seen := make(map[models.FlightKey]struct{})
	result := make([]*models.FlightRoute, 0, len(raw))

	for _, r := range raw {
		number := extract.NormaliseText(r.FlightNumber)
		if number == "" {
			n.logger.Warn("[normalizer] Dropping flight without number: %s %s", r.Airline, r.Departure)
			continue
		}
		airline := extract.NormaliseText(r.Airline)
		if airline == "" {
			airline = defaultAirline
		}
		duration := extract.NormaliseText(r.Duration)
		if duration == "" {
			duration = defaultDuration
		}
		economy, _ := extract.ParsePrice(r.PriceEconomy)

		f := &models.FlightRoute{
			ID:            uuid.NewString(),
			FlightNumber:  number,
			Airline:       airline,
			FromAirport:   from.Code,
			FromCity:      from.City,
			ToAirport:     to.Code,
			ToCity:        to.City,
			DepartureTime: extract.CleanTime(r.Departure),
			ArrivalTime:   extract.CleanTime(r.Arrival),
			Duration:      duration,
			Stops:         extract.ParseStops(r.Stops),
			PriceEconomy:  economy,
			PriceBusiness: parseFare(r.PriceBusiness),
			FlightDate:    day,
			Source:        r.Source,
			SourceURL:     r.SourceURL,
			IsActive:      true,
			CreatedAt:     now,
		}
		if info, ok := lookup.AirlineByText(airline); ok {
			f.AirlineCode = info.Code
		}
		if _, dup := seen[f.Key()]; dup {
			n.logger.Debug("[normalizer] Duplicate flight %s %s skipped", f.Airline, f.FlightNumber)
			continue
		}
		seen[f.Key()] = struct{}{}
		result = append(result, f)
	}

	n.logger.Info("[normalizer] Flights: %d -> %d", len(raw), len(result))
	return result
}

// titleCase collapses whitespace and title-cases a place name. Casers keep
// state, so each call builds its own.
func titleCase(s string) string {
	s = extract.NormaliseText(s)
	if s == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ToLower(s))
}

func parseCount(s string) *int {
	m := countRegexp.FindString(s)
	if m == "" {
		return nil
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &v
}

func parseFare(s string) *int {
	v, ok := extract.ParsePrice(s)
	if !ok {
		return nil
	}
	return &v
}

func optionalText(s string) *string {
	s = extract.NormaliseText(s)
	if s == "" {
		return nil
	}
	return &s
}

func parsePublished(s string, now time.Time) time.Time {
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(s)); err == nil {
		return t
	}
	return now
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
