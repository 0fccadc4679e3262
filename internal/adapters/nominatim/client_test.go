package nominatim_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trip_atlas/internal/adapters/nominatim"
	"trip_atlas/internal/domain"
)

func newClient(base string) *nominatim.Client {
	// tiny stagger so tests stay fast
	return nominatim.New(base, 2*time.Second, time.Millisecond)
}

func TestGeocode_FirstResultOnly(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		if r.URL.Query().Get("format") != "json" || r.URL.Query().Get("limit") != "1" {
			t.Errorf("unexpected query params: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"48.8606","lon":"2.3376"},{"lat":"0","lon":"0"}]`))
	}))
	defer ts.Close()

	pt, err := newClient(ts.URL).Geocode(context.Background(), "Louvre Museum", "Paris, France")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if pt.Latitude != 48.8606 || pt.Longitude != 2.3376 {
		t.Fatalf("unexpected point: %+v", pt)
	}
	if gotQuery != "Louvre Museum, Paris, France" {
		t.Fatalf("query: %q", gotQuery)
	}
}

func TestGeocode_EmptyResultIsNoMatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	_, err := newClient(ts.URL).Geocode(context.Background(), "Nowhere Special", "Atlantis")
	if !errors.Is(err, domain.ErrNoMatch) {
		t.Fatalf("want ErrNoMatch, got %v", err)
	}
}

func TestGeocode_Non200IsNoMatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := newClient(ts.URL).Geocode(context.Background(), "Louvre Museum", "Paris")
	if !errors.Is(err, domain.ErrNoMatch) {
		t.Fatalf("want ErrNoMatch, got %v", err)
	}
}

func TestGeocode_ParseFailureIsNoMatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer ts.Close()

	_, err := newClient(ts.URL).Geocode(context.Background(), "Louvre Museum", "Paris")
	if !errors.Is(err, domain.ErrNoMatch) {
		t.Fatalf("want ErrNoMatch, got %v", err)
	}
}

func TestGeocode_UnparseableCoordinatesIsNoMatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"forty-eight","lon":"two"}]`))
	}))
	defer ts.Close()

	_, err := newClient(ts.URL).Geocode(context.Background(), "Louvre Museum", "Paris")
	if !errors.Is(err, domain.ErrNoMatch) {
		t.Fatalf("want ErrNoMatch, got %v", err)
	}
}
