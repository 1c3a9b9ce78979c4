// Package confirmtkt scrapes train listings between two stations from
// rendered ConfirmTkt route pages.
package confirmtkt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"travel-scraper/config"
	"travel-scraper/extract"
	"travel-scraper/models"
	"travel-scraper/scraper"
	"travel-scraper/utils"
)

// Source names trains scraped by this package.
const Source = "confirmtkt"

const (
	baseURL         = "https://www.confirmtkt.com"
	defaultMaxItems = 30
)

// Params addresses one route.
type Params struct {
	FromCode string
	ToCode   string
	FromCity string
	ToCity   string
	MaxItems int
}

// Fetcher renders a route page and reads its train cards. It never returns
// an error: every failure is answered with generated trains.
type Fetcher struct {
	open      scraper.Opener
	selectors config.TrainSelectors
	retry     *utils.RetryConfig
	logger    *utils.Logger
}

// New creates a Fetcher. retry may be nil for a single attempt.
func New(open scraper.Opener, selectors config.TrainSelectors, retry *utils.RetryConfig, logger *utils.Logger) *Fetcher {
	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 1, Logger: logger}
	}
	return &Fetcher{open: open, selectors: selectors, retry: retry, logger: logger}
}

// SearchURL is the route page for p.
func SearchURL(p Params) string {
	return fmt.Sprintf("%s/trains/%s-to-%s", baseURL, strings.ToLower(p.FromCode), strings.ToLower(p.ToCode))
}

// Fetch scrapes the route page for p.
func (f *Fetcher) Fetch(ctx context.Context, p Params) scraper.Result[models.RawTrain] {
	if p.MaxItems <= 0 {
		p.MaxItems = defaultMaxItems
	}
	pageURL := SearchURL(p)
	f.logger.Info("[confirmtkt] Scraping %s -> %s: %s", p.FromCode, p.ToCode, pageURL)

	var (
		trains   []models.RawTrain
		selector string
	)
	err := scraper.WithSession(ctx, f.open, func(r scraper.Renderer) error {
		html, err := utils.Retry(ctx, f.retry, "render "+pageURL, func() (string, error) {
			return r.Render(ctx, pageURL)
		})
		if err != nil {
			return err
		}
		trains, selector, err = f.Extract(html, p.MaxItems)
		return err
	})

	switch {
	case err != nil:
		f.logger.Warn("[confirmtkt] Scrape failed, generating trains: %v", err)
		return fallback(p, scraper.ReasonFetchFailed)
	case selector == "":
		f.logger.Warn("[confirmtkt] No train cards matched any selector, generating trains")
		return fallback(p, scraper.ReasonNoMatch)
	case len(trains) == 0:
		f.logger.Warn("[confirmtkt] Cards matched %q but none were readable, generating trains", selector)
		return fallback(p, scraper.ReasonNoRecords)
	}

	f.logger.Info("[confirmtkt] Extracted %d trains using %q", len(trains), selector)
	return scraper.Result[models.RawTrain]{Items: trains, Source: Source, Selector: selector}
}

// Extract reads up to maxItems train cards from rendered HTML. It returns
// the listing selector that matched, or "" when none did.
func (f *Fetcher) Extract(html string, maxItems int) ([]models.RawTrain, string, error) {
	doc, err := scraper.ParseHTML(html)
	if err != nil {
		return nil, "", fmt.Errorf("parse html: %w", err)
	}
	selector, cards := scraper.FirstMatch(doc.Selection, f.selectors.Listing)
	if cards == nil {
		return nil, "", nil
	}

	now := time.Now()
	var trains []models.RawTrain
	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		if t, ok := f.extractCard(card, now); ok {
			trains = append(trains, t)
		} else {
			f.logger.Debug("[confirmtkt] Card %d has no train number, skipped", i+1)
		}
		return len(trains) < maxItems
	})
	return trains, selector, nil
}

func (f *Fetcher) extractCard(card *goquery.Selection, now time.Time) (models.RawTrain, bool) {
	sel := f.selectors
	number := extract.ExtractTrainNumber(scraper.FieldText(card, sel.Number))
	if number == "" {
		number = extract.ExtractTrainNumber(card.Text())
	}
	if number == "" {
		return models.RawTrain{}, false
	}

	return models.RawTrain{
		Number:       number,
		Name:         scraper.FieldText(card, sel.Name),
		Departure:    scraper.FieldText(card, sel.Departure),
		Arrival:      scraper.FieldText(card, sel.Arrival),
		Duration:     scraper.FieldText(card, sel.Duration),
		Days:         scraper.FieldText(card, sel.Days),
		PriceGeneral: scraper.FieldText(card, sel.Prices.General),
		PriceSleeper: scraper.FieldText(card, sel.Prices.Sleeper),
		PriceAC3:     scraper.FieldText(card, sel.Prices.AC3),
		PriceAC2:     scraper.FieldText(card, sel.Prices.AC2),
		PriceAC1:     scraper.FieldText(card, sel.Prices.AC1),
		Source:       Source,
		SourceURL:    baseURL + "/train/" + number,
		ScrapedAt:    now,
	}, true
}

func fallback(p Params, reason string) scraper.Result[models.RawTrain] {
	return scraper.Result[models.RawTrain]{
		Items:    Generate(p),
		Source:   models.SourceGenerated,
		Fallback: true,
		Reason:   reason,
	}
}
