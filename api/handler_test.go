package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/thomhuang/AirportDistance/airport"
	"github.com/thomhuang/AirportDistance/geo"
	"github.com/thomhuang/AirportDistance/query"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	reg, err := airport.Load([][]string{
		{"0.0", "0.0", "EQA"},
		{"1.0", "0.0", "EQB"},
		{"40.0", "40.0", "FAR"},
	})
	if err != nil {
		t.Fatal(err)
	}
	proj, err := geo.NewProjector(geo.ReferenceCalibration())
	if err != nil {
		t.Fatal(err)
	}
	h := NewHandler(reg, query.NewResolver(reg, proj, geo.Miles))

	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, dest any) int {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	var body map[string]string
	if status := getJSON(t, srv.URL+"/api/health", &body); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestDistance(t *testing.T) {
	srv := newTestServer(t)

	var result query.Result
	if status := getJSON(t, srv.URL+"/api/distance?from=eqa&to=EQB", &result); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if result.Distance.Unit != geo.Miles {
		t.Errorf("unit = %q, want mi", result.Distance.Unit)
	}
	if result.From.Code != "EQA" || result.To.Code != "EQB" {
		t.Errorf("from/to = %s/%s", result.From.Code, result.To.Code)
	}
	if result.DistanceKm < 111 || result.DistanceKm > 112 {
		t.Errorf("distance_km = %v", result.DistanceKm)
	}

	if status := getJSON(t, srv.URL+"/api/distance?from=%20eqa%20&to=EQB%09", &result); status != http.StatusOK {
		t.Fatalf("padded codes status = %d, want 200", status)
	}
	if result.From.Code != "EQA" || result.To.Code != "EQB" {
		t.Errorf("padded from/to = %s/%s", result.From.Code, result.To.Code)
	}

	if status := getJSON(t, srv.URL+"/api/distance?from=EQA&to=EQB&unit=km", &result); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if result.Distance.Unit != geo.Kilometers {
		t.Errorf("unit = %q, want km", result.Distance.Unit)
	}
}

func TestDistanceErrors(t *testing.T) {
	srv := newTestServer(t)

	var unresolved unresolvedResponse
	if status := getJSON(t, srv.URL+"/api/distance?from=EQA&to=ZZZ", &unresolved); status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if !slices.Equal(unresolved.Unresolved, []string{"ZZZ"}) {
		t.Fatalf("unresolved = %v, want [ZZZ]", unresolved.Unresolved)
	}

	tests := []string{
		"/api/distance?from=EQA",
		"/api/distance?to=EQA",
		"/api/distance?from=EQA&to=EQB&unit=parsecs",
	}
	for _, path := range tests {
		if status := getJSON(t, srv.URL+path, nil); status != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", path, status)
		}
	}
}

func TestGetAirport(t *testing.T) {
	srv := newTestServer(t)

	var a airport.Airport
	if status := getJSON(t, srv.URL+"/api/airports/far", &a); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if a.Code != "FAR" || a.Latitude != 40 {
		t.Fatalf("airport = %+v", a)
	}

	if status := getJSON(t, srv.URL+"/api/airports/%20far%20", &a); status != http.StatusOK || a.Code != "FAR" {
		t.Fatalf("padded code status = %d, airport = %+v", status, a)
	}

	if status := getJSON(t, srv.URL+"/api/airports/NOPE", nil); status != http.StatusNotFound {
		t.Fatalf("missing airport status = %d, want 404", status)
	}
}

func TestNearby(t *testing.T) {
	srv := newTestServer(t)

	var body nearbyResponse
	if status := getJSON(t, srv.URL+"/api/airports/EQA/nearby?radius_km=200", &body); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var got []string
	for _, a := range body.Nearby {
		got = append(got, a.Code)
	}
	if !slices.Equal(got, []string{"EQA", "EQB"}) {
		t.Fatalf("nearby = %v, want [EQA EQB]", got)
	}

	if status := getJSON(t, srv.URL+"/api/airports/EQA/nearby?radius_km=-1", nil); status != http.StatusBadRequest {
		t.Errorf("negative radius status = %d, want 400", status)
	}
	if status := getJSON(t, srv.URL+"/api/airports/EQA/nearby", nil); status != http.StatusBadRequest {
		t.Errorf("missing radius status = %d, want 400", status)
	}
	if status := getJSON(t, srv.URL+"/api/airports/NOPE/nearby?radius_km=10", nil); status != http.StatusNotFound {
		t.Errorf("unknown airport status = %d, want 404", status)
	}
}
