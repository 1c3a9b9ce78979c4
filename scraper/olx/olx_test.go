package olx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"

	"travel-scraper/scraper"
)

const testEndpoint = "https://www.olx.in/api/relevance/v2/search"

const pgPage = `{
  "data": [
    {
      "id": "1801", "ad_id": "1801", "title": "PG for girls near metro",
      "description": "Meals included", "status": {"status": "active"},
      "price": {"value": {"raw": 5000, "display": "₹ 5,000"}},
      "locations_resolved": {"ADMIN_LEVEL_3_name": "new delhi", "ADMIN_LEVEL_1_name": "delhi"},
      "locations": [{"lat": 28.61, "lon": 77.2}],
      "images": [{"external_id": "img-a"}, {"external_id": "img-b"}],
      "parameters": [{"key": "rooms", "value": "2"}, {"key": "furnishing", "value": "furnished", "value_name": "Furnished"}],
      "user_name": "Asha", "is_kyc_verified_user": true,
      "created_at_first": "2024-03-01T10:00:00+05:30"
    },
    {
      "id": 1802, "ad_id": 1802, "title": "Single room PG",
      "status": {"status": "active"},
      "price": {"value": {"raw": 7000, "display": "₹ 7,000"}},
      "locations_resolved": {"ADMIN_LEVEL_3_name": "Dwarka", "ADMIN_LEVEL_1_name": "Delhi"},
      "display_date": "2024-03-02T08:00:00Z"
    },
    {
      "id": "1803", "ad_id": "1803", "title": "Sold PG",
      "status": {"status": "sold"},
      "price": {"value": {"raw": 4000, "display": "₹ 4,000"}}
    },
    {
      "title": "Sponsored banner", "status": {"status": "active"}
    }
  ]
}`

func newTestClient(t *testing.T, transport http.RoundTripper) *Client {
	t.Helper()
	c, err := NewClient(Options{Endpoint: testEndpoint, Transport: transport})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func jsonResponder(status int, body string) httpmock.Responder {
	resp := httpmock.NewStringResponse(status, body)
	resp.Header.Set("Content-Type", "application/json")
	return httpmock.ResponderFromResponse(resp)
}

func fetch(t *testing.T, c *Client, p Params) ([]string, error) {
	t.Helper()
	sess := c.Open()
	defer sess.Close()

	items, err := sess.Fetch(context.Background(), p)
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids, err
}

func TestFetchKeepsOnlyActiveItems(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("POST", testEndpoint, jsonResponder(200, pgPage))

	c := newTestClient(t, transport)
	sess := c.Open()
	defer sess.Close()

	items, err := sess.Fetch(context.Background(), Params{LocationCode: "2001152", CategoryID: "1449", CategoryName: "PG & Guest Houses", MaxPages: 1})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	first := items[0]
	if first.ID != "1801" || first.PriceRaw != 5000 || first.PriceDisplay != "₹ 5,000" {
		t.Errorf("first item = %+v", first)
	}
	if first.Rooms != "2" || first.Furnishing != "Furnished" {
		t.Errorf("parameters not read: rooms=%q furnishing=%q", first.Rooms, first.Furnishing)
	}
	if len(first.ImageIDs) != 2 || !first.HasCoords {
		t.Errorf("images/coords not read: %+v", first)
	}
	if first.CategoryName != "PG & Guest Houses" {
		t.Errorf("category fallback = %q", first.CategoryName)
	}
	if items[1].ID != "1802" || items[1].PublishedAt != "2024-03-02T08:00:00Z" {
		t.Errorf("numeric ids or display_date fallback not handled: %+v", items[1])
	}
}

func TestFetchSendsSearchPayload(t *testing.T) {
	var got map[string]any
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("POST", testEndpoint, func(req *http.Request) (*http.Response, error) {
		body, _ := io.ReadAll(req.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			return nil, err
		}
		if req.Header.Get("Origin") != "https://www.olx.in" {
			return httpmock.NewStringResponse(400, "missing origin"), nil
		}
		return httpmock.NewStringResponse(200, `{"data": []}`), nil
	})

	maxPrice := int64(9000)
	c := newTestClient(t, transport)
	if _, err := fetch(t, c, Params{LocationCode: "2001152", CategoryID: "1449", Subtype: "pg,roommate", MaxPrice: &maxPrice, MaxPages: 1}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	want := map[string]any{
		"location": "2001152", "category": "1449", "subtype": "pg,roommate",
		"lang": "en-IN", "platform": "web-mobile", "page": float64(1), "price_max": float64(9000),
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("payload[%s] = %v; want %v", k, got[k], v)
		}
	}
	if _, ok := got["price_min"]; ok {
		t.Error("price_min sent without a lower bound")
	}
	if _, ok := got["nested-filters"]; !ok {
		t.Error("nested-filters missing for a PG subtype")
	}
}

func TestFetchAppliesPriceBounds(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("POST", testEndpoint, jsonResponder(200, pgPage))

	minPrice, maxPrice := int64(6000), int64(8000)
	ids, err := fetch(t, newTestClient(t, transport), Params{MinPrice: &minPrice, MaxPrice: &maxPrice, MaxPages: 1})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(ids) != 1 || ids[0] != "1802" {
		t.Errorf("ids = %v; want [1802]", ids)
	}
}

func TestFetchDeduplicatesAcrossPages(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("POST", testEndpoint, jsonResponder(200, pgPage))

	ids, err := fetch(t, newTestClient(t, transport), Params{MaxPages: 3})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("ids = %v; want 2 unique", ids)
	}
	if n := transport.GetTotalCallCount(); n != 3 {
		t.Errorf("requests = %d; want 3", n)
	}
}

func TestFetchAbortsOnNon2xx(t *testing.T) {
	calls := 0
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("POST", testEndpoint, func(req *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return httpmock.NewStringResponse(200, pgPage), nil
		}
		return httpmock.NewStringResponse(429, "slow down"), nil
	})

	ids, err := fetch(t, newTestClient(t, transport), Params{MaxPages: 3})
	if err == nil {
		t.Fatal("expected an error for a 429 page")
	}
	if len(ids) != 0 {
		t.Errorf("partial results returned: %v", ids)
	}
	var fe *scraper.FetchError
	if !errors.As(err, &fe) || fe.Kind != scraper.KindRateLimited || fe.StatusCode != 429 {
		t.Errorf("err = %v; want rate_limited 429", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d; want the loop to stop after the failing page", calls)
	}
}

func TestFetchRejectsUnexpectedShape(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("POST", testEndpoint, jsonResponder(200, `{"data": "not-a-list"}`))

	_, err := fetch(t, newTestClient(t, transport), Params{MaxPages: 1})
	if scraper.KindOf(err) != scraper.KindInvalidPayload {
		t.Errorf("err = %v; want invalid_payload", err)
	}
}

func TestFetchAfterCloseFails(t *testing.T) {
	c := newTestClient(t, httpmock.NewMockTransport())
	sess := c.Open()
	sess.Close()
	if _, err := sess.Fetch(context.Background(), Params{}); err == nil {
		t.Error("Fetch on a closed session should fail")
	}
}
