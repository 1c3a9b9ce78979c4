// Package olx fetches classifieds listings from the OLX India search API.
package olx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"travel-scraper/models"
	"travel-scraper/scraper"
	"travel-scraper/utils"
)

// Source names listings fetched by this package.
const Source = "olx"

const (
	siteURL          = "https://www.olx.in"
	defaultEndpoint  = siteURL + "/api/relevance/v2/search"
	defaultPageSize  = 40
	requestTimeout   = 30 * time.Second
	nestedPGSubtypes = `{"subtype":[{"pg":{}},{"roommate":{}}]}`
)

// Options configures a Client.
type Options struct {
	Endpoint     string
	PageSize     int
	PageDelayMin time.Duration
	PageDelayMax time.Duration
	// Transport replaces the HTTP transport, for tests.
	Transport http.RoundTripper
	Logger    *utils.Logger
}

// Params selects what a fetch asks the search API for.
type Params struct {
	LocationCode string
	CategoryID   string
	// CategoryName labels items whose payload carries no category.
	CategoryName string
	// Subtype is only sent for the PG category.
	Subtype  string
	MinPrice *int64
	MaxPrice *int64
	MaxPages int
}

// Client holds the configured parent collector. Sessions clone it.
type Client struct {
	collector *colly.Collector
	schema    *jsonschema.Schema
	opts      Options
	logger    *utils.Logger
}

// NewClient builds a Client.
func NewClient(opts Options) (*Client, error) {
	if opts.Endpoint == "" {
		opts.Endpoint = defaultEndpoint
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	u, err := url.Parse(opts.Endpoint)
	if err != nil || u.Hostname() == "" {
		return nil, fmt.Errorf("olx: invalid endpoint %q", opts.Endpoint)
	}

	c := colly.NewCollector(
		colly.AllowedDomains(u.Hostname()),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(requestTimeout)
	if err := c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 1}); err != nil {
		return nil, fmt.Errorf("olx: limit rule: %w", err)
	}
	if opts.Transport != nil {
		c.WithTransport(opts.Transport)
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	return &Client{collector: c, schema: schema, opts: opts, logger: opts.Logger}, nil
}

// Session is one fetch run over a cloned collector.
type Session struct {
	client    *Client
	collector *colly.Collector
	seen      *utils.KeySet

	body    []byte
	respErr error
}

// Open starts a Session. Close must be called when done.
func (c *Client) Open() *Session {
	s := &Session{client: c, collector: c.collector.Clone(), seen: utils.NewKeySet()}
	extensions.RandomUserAgent(s.collector)

	s.collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Content-Type", "application/json")
		r.Headers.Set("Accept", "application/json")
		r.Headers.Set("Accept-Language", "en-IN,en;q=0.9")
		r.Headers.Set("Referer", siteURL+"/")
		r.Headers.Set("Origin", siteURL)
	})
	s.collector.OnResponse(func(r *colly.Response) {
		s.body = r.Body
	})
	s.collector.OnError(func(r *colly.Response, err error) {
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		s.respErr = scraper.Classify(err, status, c.opts.Endpoint)
	})
	return s
}

// Fetch runs one scoped session for p.
func (c *Client) Fetch(ctx context.Context, p Params) ([]models.RawClassified, error) {
	s := c.Open()
	defer s.Close()
	return s.Fetch(ctx, p)
}

// Close releases the session's collector.
func (s *Session) Close() error {
	s.collector = nil
	return nil
}

// Fetch walks pages 1..MaxPages and returns the active listings within the
// price bounds, each id at most once. Any failed page aborts the fetch.
func (s *Session) Fetch(ctx context.Context, p Params) ([]models.RawClassified, error) {
	if s.collector == nil {
		return nil, errors.New("olx: session closed")
	}
	maxPages := p.MaxPages
	if maxPages < 1 {
		maxPages = 1
	}
	logger := s.client.logger

	var out []models.RawClassified
	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		payload, err := json.Marshal(s.client.payload(p, page))
		if err != nil {
			return nil, fmt.Errorf("olx: encode payload: %w", err)
		}

		s.body, s.respErr = nil, nil
		err = s.collector.PostRaw(s.client.opts.Endpoint, payload)
		if s.respErr != nil {
			return nil, s.respErr
		}
		if err != nil {
			return nil, scraper.Classify(err, 0, s.client.opts.Endpoint)
		}

		items, err := s.client.decodePage(s.body)
		if err != nil {
			return nil, &scraper.FetchError{Kind: scraper.KindInvalidPayload, URL: s.client.opts.Endpoint, Err: err}
		}

		kept := 0
		now := time.Now()
		for _, it := range items {
			if !it.active() {
				logger.Debug("[olx] Skipping inactive item %q", it.Title)
				continue
			}
			price := it.priceRaw()
			if p.MinPrice != nil && price < *p.MinPrice {
				continue
			}
			if p.MaxPrice != nil && price > *p.MaxPrice {
				continue
			}
			if !s.seen.Add(it.id()) {
				continue
			}
			out = append(out, it.toRaw(p.CategoryName, now))
			kept++
		}
		logger.Info("[olx] Page %d: %d items received, %d kept", page, len(items), kept)

		if page < maxPages {
			if err := utils.RandomDelay(ctx, s.client.opts.PageDelayMin, s.client.opts.PageDelayMax); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func (c *Client) payload(p Params, page int) map[string]any {
	body := map[string]any{
		"lang":                 "en-IN",
		"location":             p.LocationCode,
		"page":                 page,
		"platform":             "web-mobile",
		"size":                 c.opts.PageSize,
		"facet_limit":          1000,
		"location_facet_limit": 40,
		"relaxedFilters":       true,
		"pttEnabled":           true,
	}
	if p.CategoryID != "" {
		body["category"] = p.CategoryID
	}
	if p.MinPrice != nil {
		body["price_min"] = *p.MinPrice
	}
	if p.MaxPrice != nil {
		body["price_max"] = *p.MaxPrice
	}
	if p.Subtype != "" {
		body["subtype"] = p.Subtype
		body["nested-filters"] = nestedPGSubtypes
	}
	return body
}

// decodePage validates the envelope and decodes items one by one so a
// single malformed item does not sink the page.
func (c *Client) decodePage(body []byte) ([]searchItem, error) {
	if err := validateEnvelope(c.schema, body); err != nil {
		return nil, err
	}
	var page searchPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}

	items := make([]searchItem, 0, len(page.Data))
	for i, raw := range page.Data {
		var it searchItem
		if err := json.Unmarshal(raw, &it); err != nil {
			c.logger.Warn("[olx] Skipping malformed item %d: %v", i, err)
			continue
		}
		items = append(items, it)
	}
	return items, nil
}
