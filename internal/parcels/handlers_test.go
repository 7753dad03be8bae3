package parcels

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MapDog/MapDog-Backend/internal/parcels/mapwise"
)

// stubGateway serves one canned listing or error for every call.
type stubGateway struct {
	listing *mapwise.Listing
	err     error
}

func (s stubGateway) FetchCountyListing(ctx context.Context, county string, limit int) (*mapwise.Listing, error) {
	return s.listing, s.err
}

// withGateway swaps the package gateway for the test's stub and
// restores it afterwards.
func withGateway(t *testing.T, g CountyLister) {
	t.Helper()
	prev := Gateway
	Gateway = g
	t.Cleanup(func() { Gateway = prev })
}

func doRequest(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	SetupRoutes().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON response: %v\n%s", err, rec.Body.String())
	}
	return m
}

func TestSearchParcels_Validation(t *testing.T) {
	withGateway(t, stubGateway{})

	cases := []string{
		"/parcels/search",
		"/parcels/search?county=ORANGE123",
		"/parcels/search?county=ORANGE&limit=0",
		"/parcels/search?county=ORANGE&limit=101",
		"/parcels/search?county=ORANGE&limit=-3",
		"/parcels/search?county=ORANGE&limit=abc",
	}

	for _, target := range cases {
		rec := doRequest(t, http.MethodGet, target, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
			continue
		}
		body := decodeBody(t, rec)
		if body["code"] != "validation_error" {
			t.Errorf("%s: expected validation_error code, got %v", target, body["code"])
		}
		if body["hint"] == nil {
			t.Errorf("%s: expected a hint", target)
		}
	}
}

func TestSearchParcels_EmptyResult(t *testing.T) {
	withGateway(t, stubGateway{listing: &mapwise.Listing{RecordCount: 0, TotalCount: 482114}})

	rec := doRequest(t, http.MethodGet, "/parcels/search?county=ORANGE&limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if data, ok := body["data"].([]any); !ok || len(data) != 0 {
		t.Errorf("expected empty data array, got %v", body["data"])
	}
	meta := body["meta"].(map[string]any)
	if meta["record_count"].(float64) != 0 {
		t.Errorf("expected record_count 0, got %v", meta["record_count"])
	}
	if meta["total_count"].(float64) != 482114 {
		t.Errorf("expected total_count passthrough, got %v", meta["total_count"])
	}
	want := "No parcels found matching criteria in ORANGE county"
	if meta["message"] != want {
		t.Errorf("expected message %q, got %v", want, meta["message"])
	}
}

func TestSearchParcels_UpstreamErrorMapping(t *testing.T) {
	cases := []struct {
		kind       mapwise.Kind
		upstream   int
		wantStatus int
	}{
		{mapwise.KindBadRequest, 400, 400},
		{mapwise.KindUnauthorized, 401, 401},
		{mapwise.KindForbidden, 403, 403},
		{mapwise.KindNotFound, 404, 404},
		{mapwise.KindRateLimited, 429, 429},
		{mapwise.KindUnavailable, 500, 503},
		{mapwise.KindUnavailable, 502, 503},
		{mapwise.KindNetwork, 0, 500},
		{mapwise.KindUnexpected, 418, 502},
	}

	for _, tc := range cases {
		withGateway(t, stubGateway{err: &mapwise.APIError{Kind: tc.kind, StatusCode: tc.upstream}})

		rec := doRequest(t, http.MethodGet, "/parcels/search?county=ORANGE&limit=5", "")
		if rec.Code != tc.wantStatus {
			t.Errorf("%s: expected %d, got %d", tc.kind, tc.wantStatus, rec.Code)
			continue
		}

		body := decodeBody(t, rec)
		if body["code"] != string(tc.kind) {
			t.Errorf("%s: expected code in body, got %v", tc.kind, body["code"])
		}
		if tc.kind == mapwise.KindRateLimited {
			if rec.Header().Get("Retry-After") != "30" {
				t.Errorf("rate limited response should carry Retry-After")
			}
			if body["hint"] == nil {
				t.Errorf("rate limited response should carry a back-off hint")
			}
		}
		if tc.kind == mapwise.KindUnauthorized && body["hint"] == nil {
			t.Errorf("auth failure should carry a credentials hint")
		}
	}
}

func TestBulkSearch_Validation(t *testing.T) {
	withGateway(t, stubGateway{})

	cases := []string{
		`{"county":"ORANGE"}`,
		`{"pins":[],"county":"ORANGE"}`,
		`{"pins":["A"]}`,
		`{"pins":["A"],"county":"ORANGE-1"}`,
		`not json`,
	}

	for _, body := range cases {
		rec := doRequest(t, http.MethodPost, "/parcels/bulk-search", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestBulkSearch_PartialMatch(t *testing.T) {
	withGateway(t, stubGateway{listing: &mapwise.Listing{
		Parcels:     []mapwise.Parcel{{Identifiers: &mapwise.Identifiers{PIN: "A"}}},
		RecordCount: 1,
	}})

	rec := doRequest(t, http.MethodPost, "/parcels/bulk-search",
		`{"pins":["A","B"],"county":"ORANGE"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	meta := body["meta"].(map[string]any)
	if meta["requested"].(float64) != 2 || meta["found"].(float64) != 1 || meta["errors"].(float64) != 0 {
		t.Errorf("unexpected meta: %v", meta)
	}
	if meta["searchRingName"] != nil {
		t.Errorf("expected null searchRingName, got %v", meta["searchRingName"])
	}

	results := body["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("expected exactly the record for A, got %v", results)
	}
	ids := results[0].(map[string]any)["identifiers"].(map[string]any)
	if ids["pin"] != "A" {
		t.Errorf("expected pin A, got %v", ids["pin"])
	}
	// NOT_FOUND pins are not fetch errors.
	if _, present := body["errors"]; present {
		t.Errorf("expected no errors array, got %v", body["errors"])
	}
}

func TestBulkSearch_FetchFailures(t *testing.T) {
	withGateway(t, stubGateway{err: &mapwise.APIError{Kind: mapwise.KindNetwork}})

	rec := doRequest(t, http.MethodPost, "/parcels/bulk-search",
		`{"pins":["A","B"],"county":"ORANGE"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with per-PIN failures, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	meta := body["meta"].(map[string]any)
	if meta["found"].(float64) != 0 || meta["errors"].(float64) != 2 {
		t.Errorf("unexpected meta: %v", meta)
	}

	errs := body["errors"].([]any)
	if len(errs) != 2 {
		t.Fatalf("expected 2 error entries, got %v", errs)
	}
	first := errs[0].(map[string]any)
	if first["pin"] != "A" || first["error"] != "Failed to fetch" {
		t.Errorf("unexpected error entry: %v", first)
	}
}

func TestCoordinateSearch_StubDisclaimer(t *testing.T) {
	withGateway(t, stubGateway{listing: &mapwise.Listing{
		Parcels:     []mapwise.Parcel{{Identifiers: &mapwise.Identifiers{PIN: "A"}}},
		RecordCount: 1,
	}})

	rec := doRequest(t, http.MethodGet,
		"/parcels/coordinate-search?lat=28.5384&lon=-81.3789&county=ORANGE&limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	meta := decodeBody(t, rec)["meta"].(map[string]any)
	disclaimer, _ := meta["disclaimer"].(string)
	if !strings.Contains(disclaimer, "not verified") {
		t.Errorf("expected stub disclaimer, got %q", disclaimer)
	}
}

func TestCoordinateSearch_Validation(t *testing.T) {
	withGateway(t, stubGateway{})

	cases := []string{
		"/parcels/coordinate-search?lat=91&lon=0&county=ORANGE",
		"/parcels/coordinate-search?lat=0&lon=181&county=ORANGE",
		"/parcels/coordinate-search?lat=x&lon=y&county=ORANGE",
		"/parcels/coordinate-search?lat=28.5&lon=-81.3&county=ORANGE99",
	}
	for _, target := range cases {
		rec := doRequest(t, http.MethodGet, target, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestSaveParcel_Validation(t *testing.T) {
	cases := []string{
		`{"county":"ORANGE"}`,
		`{"parcelId":"P1"}`,
		`bad`,
	}
	for _, body := range cases {
		rec := doRequest(t, http.MethodPost, "/parcels/save", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestDeleteSavedParcel_InvalidID(t *testing.T) {
	rec := doRequest(t, http.MethodDelete, "/parcels/saved/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %d", rec.Code)
	}
}
