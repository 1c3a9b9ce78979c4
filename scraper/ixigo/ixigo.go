// Package ixigo scrapes flights for one route and date from rendered Ixigo
// search result pages.
package ixigo

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"travel-scraper/config"
	"travel-scraper/extract"
	"travel-scraper/models"
	"travel-scraper/scraper"
	"travel-scraper/utils"
)

// Source names flights scraped by this package.
const Source = "ixigo"

const (
	baseURL         = "https://www.ixigo.com"
	defaultMaxItems = 20
)

// flightNumberRegexp matches carrier designators such as "6E 2134" or "AI-865".
var flightNumberRegexp = regexp.MustCompile(`\b([A-Z][A-Z0-9]|[0-9][A-Z])[\s-]?(\d{2,4})\b`)

// Params addresses one route on one day.
type Params struct {
	FromCode string
	ToCode   string
	Date     time.Time
	MaxItems int
}

// Fetcher renders a search page and reads its flight cards. Like the train
// fetcher it answers every failure with generated flights.
type Fetcher struct {
	open      scraper.Opener
	selectors config.FlightSelectors
	retry     *utils.RetryConfig
	logger    *utils.Logger
}

// New creates a Fetcher. retry may be nil for a single attempt.
func New(open scraper.Opener, selectors config.FlightSelectors, retry *utils.RetryConfig, logger *utils.Logger) *Fetcher {
	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 1, Logger: logger}
	}
	return &Fetcher{open: open, selectors: selectors, retry: retry, logger: logger}
}

// SearchURL is the one-way economy search page for p.
func SearchURL(p Params) string {
	return fmt.Sprintf("%s/search/result/flight/%s-%s-%s--1-0-0-E-0--",
		baseURL, strings.ToUpper(p.FromCode), strings.ToUpper(p.ToCode), p.Date.Format("02012006"))
}

// Fetch scrapes the search page for p.
func (f *Fetcher) Fetch(ctx context.Context, p Params) scraper.Result[models.RawFlight] {
	if p.MaxItems <= 0 {
		p.MaxItems = defaultMaxItems
	}
	pageURL := SearchURL(p)
	f.logger.Info("[ixigo] Scraping %s -> %s on %s: %s", p.FromCode, p.ToCode, p.Date.Format(models.DateLayout), pageURL)

	var (
		flights  []models.RawFlight
		selector string
	)
	err := scraper.WithSession(ctx, f.open, func(r scraper.Renderer) error {
		html, err := utils.Retry(ctx, f.retry, "render "+pageURL, func() (string, error) {
			return r.Render(ctx, pageURL)
		})
		if err != nil {
			return err
		}
		flights, selector, err = f.Extract(html, pageURL, p.MaxItems)
		return err
	})

	switch {
	case err != nil:
		f.logger.Warn("[ixigo] Scrape failed, generating flights: %v", err)
		return fallback(p, scraper.ReasonFetchFailed)
	case selector == "":
		f.logger.Warn("[ixigo] No flight cards matched any selector, generating flights")
		return fallback(p, scraper.ReasonNoMatch)
	case len(flights) == 0:
		f.logger.Warn("[ixigo] Cards matched %q but none were readable, generating flights", selector)
		return fallback(p, scraper.ReasonNoRecords)
	}

	f.logger.Info("[ixigo] Extracted %d flights using %q", len(flights), selector)
	return scraper.Result[models.RawFlight]{Items: flights, Source: Source, Selector: selector}
}

// Extract reads up to maxItems flight cards from rendered HTML. It returns
// the listing selector that matched, or "" when none did.
func (f *Fetcher) Extract(html, pageURL string, maxItems int) ([]models.RawFlight, string, error) {
	doc, err := scraper.ParseHTML(html)
	if err != nil {
		return nil, "", fmt.Errorf("parse html: %w", err)
	}
	selector, cards := scraper.FirstMatch(doc.Selection, f.selectors.Listing)
	if cards == nil {
		return nil, "", nil
	}

	now := time.Now()
	var flights []models.RawFlight
	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		if fl, ok := f.extractCard(card, pageURL, now); ok {
			flights = append(flights, fl)
		} else {
			f.logger.Debug("[ixigo] Card %d has neither airline nor price, skipped", i+1)
		}
		return len(flights) < maxItems
	})
	return flights, selector, nil
}

func (f *Fetcher) extractCard(card *goquery.Selection, pageURL string, now time.Time) (models.RawFlight, bool) {
	sel := f.selectors
	airline := scraper.FieldText(card, sel.Airline)
	price := scraper.FieldText(card, sel.Price)
	if airline == "" && price == "" {
		return models.RawFlight{}, false
	}

	number := scraper.FieldText(card, sel.FlightNumber)
	if number == "" {
		number = flightNumberRegexp.FindString(extract.NormaliseText(card.Text()))
	}

	fl := models.RawFlight{
		FlightNumber: number,
		Airline:      airline,
		Duration:     scraper.FieldText(card, sel.Duration),
		Stops:        scraper.FieldText(card, sel.Stops),
		PriceEconomy: price,
		Source:       Source,
		SourceURL:    pageURL,
		ScrapedAt:    now,
	}
	times := scraper.FieldTexts(card, sel.Times)
	if len(times) > 0 {
		fl.Departure = times[0]
	}
	if len(times) > 1 {
		fl.Arrival = times[1]
	}
	return fl, true
}

func fallback(p Params, reason string) scraper.Result[models.RawFlight] {
	return scraper.Result[models.RawFlight]{
		Items:    Generate(p),
		Source:   models.SourceGenerated,
		Fallback: true,
		Reason:   reason,
	}
}
