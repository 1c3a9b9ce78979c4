package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"travel-scraper/metrics"
	"travel-scraper/models"
	"travel-scraper/services"
	"travel-scraper/storage"
	"travel-scraper/utils"
)

type stubTrains struct {
	err     error
	lastReq models.TrainSearchRequest
}

func (s *stubTrains) Scrape(ctx context.Context, req models.RouteScrapeRequest) (*models.ScrapeResult[*models.TrainRoute], error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.ScrapeResult[*models.TrainRoute]{
		Items:      []*models.TrainRoute{{TrainNumber: "12951"}},
		SavedCount: 1,
		Source:     "confirmtkt",
	}, nil
}

func (s *stubTrains) Search(ctx context.Context, req models.TrainSearchRequest) (*models.SearchResult[*models.TrainRoute], error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.SearchResult[*models.TrainRoute]{Items: []*models.TrainRoute{}, IsStale: true, NeedsScraping: true}, nil
}

func (s *stubTrains) Cities() []string {
	return []string{"mumbai", "new delhi"}
}

type stubFlights struct{}

func (stubFlights) Scrape(ctx context.Context, req models.RouteScrapeRequest) (*models.ScrapeResult[*models.FlightRoute], error) {
	return nil, fmt.Errorf("reconcile flights: %w", storage.ErrUnavailable)
}

func (stubFlights) Search(ctx context.Context, req models.FlightSearchRequest) (*models.SearchResult[*models.FlightRoute], error) {
	return nil, errors.New("pq: relation does not exist")
}

func (stubFlights) Cities() []string {
	return []string{"delhi"}
}

type stubClassifieds struct{}

func (stubClassifieds) Scrape(ctx context.Context, req models.ClassifiedScrapeRequest) (*models.ScrapeResult[*models.ClassifiedListing], error) {
	return nil, fmt.Errorf("%w: forbidden", services.ErrUpstream)
}

func (stubClassifieds) Search(ctx context.Context, req models.ClassifiedSearchRequest) (*models.SearchResult[*models.ClassifiedListing], error) {
	return &models.SearchResult[*models.ClassifiedListing]{Items: []*models.ClassifiedListing{}}, nil
}

func (stubClassifieds) Deactivate(ctx context.Context, id string) error {
	if id != "42" {
		return fmt.Errorf("deactivate listing %s: %w", id, services.ErrListingNotFound)
	}
	return nil
}

func (stubClassifieds) PriceHistory(ctx context.Context, id string) ([]*models.PriceHistoryEntry, error) {
	return []*models.PriceHistoryEntry{{ID: "h1", ListingID: id, Price: 5500, Currency: models.CurrencyINR}}, nil
}

func newTestRouter(trains *stubTrains) http.Handler {
	svc := Services{Trains: trains, Flights: stubFlights{}, Classifieds: stubClassifieds{}}
	return NewRouter(svc, metrics.New(), utils.NewLogger())
}

type decoded struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, decoded) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env decoded
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: invalid envelope %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, env
}

func TestRoutes(t *testing.T) {
	h := newTestRouter(&stubTrains{})

	tests := []struct {
		name, method, path, body string
		wantStatus               int
		wantSuccess              bool
		wantData                 string
		wantError                string
	}{
		{"health", http.MethodGet, "/healthz", "", http.StatusOK, true, `"ok"`, ""},
		{"train scrape", http.MethodPost, "/api/scrape/trains", `{"fromCity":"new delhi","toCity":"mumbai"}`, http.StatusOK, true, `"savedCount":1`, ""},
		{"train search", http.MethodPost, "/api/search/trains", `{"fromCity":"new delhi","toCity":"mumbai"}`, http.StatusOK, true, `"cacheAgeHours":null`, ""},
		{"train cities", http.MethodGet, "/api/trains/cities", "", http.StatusOK, true, `"new delhi"`, ""},
		{"flight cities", http.MethodGet, "/api/flights/cities", "", http.StatusOK, true, `"delhi"`, ""},
		{"store down", http.MethodPost, "/api/scrape/flights", `{}`, http.StatusServiceUnavailable, false, "", "storage unavailable"},
		{"internal error hidden", http.MethodPost, "/api/search/flights", `{}`, http.StatusInternalServerError, false, "", "internal error"},
		{"upstream failure", http.MethodPost, "/api/scrape/classifieds", "", http.StatusBadGateway, false, "", "upstream source unavailable"},
		{"empty classifieds search", http.MethodPost, "/api/search/classifieds", "", http.StatusOK, true, `"items":[]`, ""},
		{"price history", http.MethodGet, "/api/classifieds/42/price-history", "", http.StatusOK, true, `"listingId":"42"`, ""},
		{"deactivate", http.MethodDelete, "/api/classifieds/42", "", http.StatusOK, true, `"inactive"`, ""},
		{"deactivate unknown", http.MethodDelete, "/api/classifieds/7", "", http.StatusNotFound, false, "", "listing not found"},
		{"malformed body", http.MethodPost, "/api/search/trains", `{"fromCity":`, http.StatusBadRequest, false, "", "malformed request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, h, tt.method, tt.path, tt.body)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d", status, tt.wantStatus)
			}
			if env.Success != tt.wantSuccess {
				t.Errorf("success = %v", env.Success)
			}
			if tt.wantData != "" && !strings.Contains(string(env.Data), tt.wantData) {
				t.Errorf("data %s does not contain %s", env.Data, tt.wantData)
			}
			if !strings.Contains(env.Error, tt.wantError) {
				t.Errorf("error = %q, want %q", env.Error, tt.wantError)
			}
			if !tt.wantSuccess && env.Data != nil {
				t.Errorf("failed response carried data: %s", env.Data)
			}
		})
	}
}

func TestValidationErrorIsBadRequest(t *testing.T) {
	err := fmt.Errorf("search: %w", &services.ValidationError{Field: "fromCity", Err: errors.New("unknown city")})
	h := newTestRouter(&stubTrains{err: err})

	status, env := do(t, h, http.MethodPost, "/api/search/trains", `{"fromCity":"gotham","toCity":"mumbai"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
	if env.Error != "invalid fromCity: unknown city" {
		t.Errorf("error = %q", env.Error)
	}
}

func TestSearchBodyReachesService(t *testing.T) {
	trains := &stubTrains{}
	h := newTestRouter(trains)

	body := `{"fromCity":"new delhi","toCity":"mumbai","date":"2026-03-14","sortBy":"price","filters":{"trainType":"Rajdhani","maxPrice":3000}}`
	if status, _ := do(t, h, http.MethodPost, "/api/search/trains", body); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	got := trains.lastReq
	if got.Date != "2026-03-14" || got.SortBy != "price" || got.Filters.TrainType != models.TrainRajdhani {
		t.Errorf("request = %+v", got)
	}
	if got.Filters.MaxPrice == nil || *got.Filters.MaxPrice != 3000 {
		t.Errorf("maxPrice = %v", got.Filters.MaxPrice)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	m.IncSearch("trains", true)
	h := NewRouter(Services{Trains: &stubTrains{}, Flights: stubFlights{}, Classifieds: stubClassifieds{}}, m, utils.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "travel_searches_total") {
		t.Errorf("metrics output missing the search counter:\n%s", rec.Body.String())
	}
}
