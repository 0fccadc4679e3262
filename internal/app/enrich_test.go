package app_test

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"

	"trip_atlas/internal/app"
	"trip_atlas/internal/domain"
	"trip_atlas/internal/extract"
)

// ---- fakes ----

type fakeGeocoder struct {
	mu    sync.Mutex
	pts   map[string]domain.GeoPoint
	fail  map[string]bool
	calls []string
}

func (f *fakeGeocoder) Geocode(ctx context.Context, name, hint string) (domain.GeoPoint, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
	if f.fail[name] {
		return domain.GeoPoint{}, domain.ErrNoMatch
	}
	if pt, ok := f.pts[name]; ok {
		return pt, nil
	}
	return domain.GeoPoint{Latitude: 1, Longitude: 2}, nil
}

func (f *fakeGeocoder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeResolver struct {
	failAll bool
}

func (f *fakeResolver) Resolve(ctx context.Context, name string) (string, error) {
	if f.failAll {
		return "", domain.ErrUnverified
	}
	return "https://en.wikipedia.org/wiki/" + strings.ReplaceAll(name, " ", "_"), nil
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string]domain.GeoPoint
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	*dst.(*domain.GeoPoint) = v
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string]domain.GeoPoint{}
	}
	c.store[key] = v.(domain.GeoPoint)
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error { return nil }

// ---- helpers ----

func newService(geo domain.Geocoder, links domain.LinkResolver, p app.Params) *app.EnrichmentService {
	ex := extract.New(extract.DefaultVocab(), extract.NoopTagger{})
	return app.NewEnrichmentService(ex, geo, links, p)
}

func day(location string, morning ...string) domain.DayPlan {
	acts := make([]domain.Activity, len(morning))
	for i, m := range morning {
		acts[i] = domain.Activity{Text: m}
	}
	return domain.DayPlan{Location: location, Morning: acts}
}

// ---- tests ----

func TestEnrichTrip_RawSentinelPassesThrough(t *testing.T) {
	svc := newService(&fakeGeocoder{}, &fakeResolver{}, app.Params{})
	in := domain.Itinerary{Raw: "the model answered in prose"}

	res := svc.EnrichTrip(context.Background(), in, "Japan")
	if res.EnrichedItinerary.Raw != in.Raw || res.EnrichedItinerary.Days != nil {
		t.Fatalf("raw itinerary changed: %+v", res.EnrichedItinerary)
	}
	if len(res.Attractions) != 0 {
		t.Fatalf("expected no attractions, got %+v", res.Attractions)
	}
}

func TestCollectAttractions_Deduplicates(t *testing.T) {
	geo := &fakeGeocoder{}
	svc := newService(geo, &fakeResolver{}, app.Params{})

	it := domain.Itinerary{Days: map[string]domain.DayPlan{
		"day1": day("", "Explore the Louvre Museum", "Admire the Louvre Museum"),
		"day2": day("", "Explore the Louvre Museum again"),
	}}
	got := svc.CollectAttractions(context.Background(), it, "Paris, France")
	if len(got) != 1 || got[0].Name != "Louvre Museum" {
		t.Fatalf("expected single deduplicated attraction, got %+v", got)
	}
	if geo.callCount() != 1 {
		t.Fatalf("expected 1 geocode call, got %d", geo.callCount())
	}
}

func TestCollectAttractions_CapsAtEight(t *testing.T) {
	geo := &fakeGeocoder{}
	svc := newService(geo, &fakeResolver{}, app.Params{})

	cities := []string{
		"Lisbon", "Porto", "Madrid", "Seville", "Barcelona", "Valencia",
		"Granada", "Toledo", "Bilbao", "Cordoba", "Salamanca", "Segovia",
	}
	days := make(map[string]domain.DayPlan, len(cities))
	for i, c := range cities {
		days[fmt.Sprintf("day%d", i+1)] = day(c)
	}
	it := domain.Itinerary{Days: days}

	got := svc.CollectAttractions(context.Background(), it, "Spain")
	if len(got) != 8 {
		t.Fatalf("expected cap of 8, got %d", len(got))
	}
	names := make([]string, len(got))
	for i, a := range got {
		names[i] = a.Name
	}
	sort.Strings(names)
	want := append([]string(nil), cities[:8]...)
	sort.Strings(want)
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("cap must keep the first 8 in encounter order: got %v want %v", names, want)
	}
}

func TestCollectAttractions_FailureIsolation(t *testing.T) {
	geo := &fakeGeocoder{fail: map[string]bool{"Madrid": true}}
	svc := newService(geo, &fakeResolver{}, app.Params{})

	days := map[string]domain.DayPlan{}
	for i, c := range []string{"Lisbon", "Porto", "Madrid", "Seville", "Granada"} {
		days[fmt.Sprintf("day%d", i+1)] = day(c)
	}
	got := svc.CollectAttractions(context.Background(), domain.Itinerary{Days: days}, "Iberia")

	if len(got) != 4 {
		t.Fatalf("expected 4 surviving attractions, got %+v", got)
	}
	seen := map[string]int{}
	for _, a := range got {
		seen[a.Name]++
		if a.Name == "Madrid" {
			t.Fatal("failed name must not appear in output")
		}
	}
	for n, c := range seen {
		if c != 1 {
			t.Fatalf("duplicate entry for %s", n)
		}
	}
}

func TestEnrich_AnnotatesActivitiesAndLocations(t *testing.T) {
	svc := newService(&fakeGeocoder{}, &fakeResolver{}, app.Params{})

	it := domain.Itinerary{Days: map[string]domain.DayPlan{
		"day1": day("Paris", "Explore the Louvre Museum", "free morning"),
	}}
	out := svc.Enrich(context.Background(), it)

	d := out.Days["day1"]
	if d.LocationLink != "https://en.wikipedia.org/wiki/Paris" {
		t.Fatalf("location link: %q", d.LocationLink)
	}
	if d.Morning[0].AttractionName != "Louvre Museum" ||
		d.Morning[0].ReferenceLink != "https://en.wikipedia.org/wiki/Louvre_Museum" {
		t.Fatalf("activity not annotated: %+v", d.Morning[0])
	}
	if d.Morning[0].Text != "Explore the Louvre Museum" {
		t.Fatalf("original text altered: %q", d.Morning[0].Text)
	}
	// extraction miss: enriched record with no derived fields, not an error
	if d.Morning[1].AttractionName != "" || d.Morning[1].ReferenceLink != "" {
		t.Fatalf("miss should leave fields absent: %+v", d.Morning[1])
	}
}

func TestEnrich_Idempotent(t *testing.T) {
	svc := newService(&fakeGeocoder{}, &fakeResolver{}, app.Params{})

	it := domain.Itinerary{Days: map[string]domain.DayPlan{
		"day1": day("Paris", "Explore the Louvre Museum", "Dinner in Montmartre"),
	}}
	once := svc.Enrich(context.Background(), it)
	twice := svc.Enrich(context.Background(), once)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("enrich is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestEnrich_UnverifiedLinksOmitted(t *testing.T) {
	svc := newService(&fakeGeocoder{}, &fakeResolver{failAll: true}, app.Params{})

	it := domain.Itinerary{Days: map[string]domain.DayPlan{
		"day1": day("Paris", "Explore the Louvre Museum"),
	}}
	out := svc.Enrich(context.Background(), it)
	d := out.Days["day1"]
	if d.LocationLink != "" || d.Morning[0].ReferenceLink != "" {
		t.Fatalf("unverified links must be omitted: %+v", d)
	}
	// the attraction name itself still survives
	if d.Morning[0].AttractionName != "Louvre Museum" {
		t.Fatalf("extraction result lost: %+v", d.Morning[0])
	}
}

func TestEnrichTrip_LouvreScenario(t *testing.T) {
	geo := &fakeGeocoder{pts: map[string]domain.GeoPoint{
		"Louvre Museum": {Latitude: 48.8606, Longitude: 2.3376},
	}}
	svc := newService(geo, &fakeResolver{}, app.Params{})

	it := domain.Itinerary{Days: map[string]domain.DayPlan{
		"day1": {Afternoon: []domain.Activity{{Text: "Explore the Louvre Museum"}}},
	}}
	res := svc.EnrichTrip(context.Background(), it, app.BuildContextHint("France", "Paris"))

	if len(res.Attractions) != 1 {
		t.Fatalf("attractions: %+v", res.Attractions)
	}
	a := res.Attractions[0]
	if a.Name != "Louvre Museum" ||
		a.Coordinate != (domain.GeoPoint{Latitude: 48.8606, Longitude: 2.3376}) ||
		a.ReferenceLink != "https://en.wikipedia.org/wiki/Louvre_Museum" {
		t.Fatalf("attraction: %+v", a)
	}
	act := res.EnrichedItinerary.Days["day1"].Afternoon[0]
	if act.AttractionName != "Louvre Museum" || act.ReferenceLink == "" {
		t.Fatalf("itinerary not annotated: %+v", act)
	}
}

func TestGeocode_CacheServesRepeatLookups(t *testing.T) {
	geo := &fakeGeocoder{}
	cache := &fakeCache{}
	svc := newService(geo, &fakeResolver{}, app.Params{Cache: cache})

	it := domain.Itinerary{Days: map[string]domain.DayPlan{"day1": day("Kyoto")}}

	_ = svc.CollectAttractions(context.Background(), it, "Japan")
	if geo.callCount() != 1 {
		t.Fatalf("expected 1 upstream call, got %d", geo.callCount())
	}
	_ = svc.CollectAttractions(context.Background(), it, "Japan")
	if geo.callCount() != 1 {
		t.Fatalf("second lookup should hit the cache, got %d upstream calls", geo.callCount())
	}
}

func TestBuildContextHint(t *testing.T) {
	cases := []struct{ country, locations, want string }{
		{"Japan", "", "Japan"},
		{"Japan", "Tokyo, Kyoto", "Tokyo, Japan"},
		{"France", " Paris ", "Paris, France"},
	}
	for _, c := range cases {
		if got := app.BuildContextHint(c.country, c.locations); got != c.want {
			t.Errorf("BuildContextHint(%q, %q) = %q; want %q", c.country, c.locations, got, c.want)
		}
	}
}
