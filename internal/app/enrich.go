package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"trip_atlas/internal/adapters/observability"
	"trip_atlas/internal/domain"
	"trip_atlas/internal/extract"
)

const (
	DefaultMaxAttractions = 8
	DefaultWorkers        = 8
)

// EnrichmentService walks an itinerary, extracts candidate place names, and
// fans out concurrent geocode and reference-link lookups. Its output is
// advisory: per-name failures drop that name's field, never the request.
type EnrichmentService struct {
	ex    *extract.Extractor
	geo   domain.Geocoder
	links domain.LinkResolver

	cache          domain.Cache // optional; nil disables
	cacheTTL       time.Duration
	workers        int64
	maxAttractions int
	batchTimeout   time.Duration
}

// Params tunes the service; zero values select defaults.
type Params struct {
	Cache          domain.Cache
	CacheTTL       time.Duration
	Workers        int
	MaxAttractions int
	BatchTimeout   time.Duration
}

func NewEnrichmentService(ex *extract.Extractor, geo domain.Geocoder, links domain.LinkResolver, p Params) *EnrichmentService {
	if p.Workers <= 0 {
		p.Workers = DefaultWorkers
	}
	if p.MaxAttractions <= 0 {
		p.MaxAttractions = DefaultMaxAttractions
	}
	if p.CacheTTL <= 0 {
		p.CacheTTL = 24 * time.Hour
	}
	return &EnrichmentService{
		ex:             ex,
		geo:            geo,
		links:          links,
		cache:          p.Cache,
		cacheTTL:       p.CacheTTL,
		workers:        int64(p.Workers),
		maxAttractions: p.MaxAttractions,
		batchTimeout:   p.BatchTimeout,
	}
}

// BuildContextHint disambiguates generic place names for the geocoder:
// "{first location}, {country}" when locations were given, else the country.
func BuildContextHint(country, locations string) string {
	if l := strings.TrimSpace(locations); l != "" {
		if first := strings.TrimSpace(strings.Split(l, ",")[0]); first != "" {
			return first + ", " + country
		}
	}
	return country
}

// nameIndex is the shared read-only extraction result both traversals consume.
type nameIndex struct {
	names  []string          // deduped, first-seen order: day locations + activity extractions
	byText map[string]string // activity text -> extracted name; absent/"" = miss
}

func (s *EnrichmentService) index(it domain.Itinerary) nameIndex {
	idx := nameIndex{byText: make(map[string]string)}
	seen := make(map[string]struct{})
	add := func(n string) {
		if n == "" {
			return
		}
		if _, dup := seen[n]; dup {
			return
		}
		seen[n] = struct{}{}
		idx.names = append(idx.names, n)
	}

	for _, key := range it.DayKeys() {
		day := it.Days[key]
		if loc := strings.TrimSpace(day.Location); loc != "" {
			add(loc)
		}
		for _, slot := range [][]domain.Activity{day.Morning, day.Afternoon, day.Evening} {
			for _, a := range slot {
				if _, done := idx.byText[a.Text]; done {
					continue
				}
				name, ok := s.ex.Extract(a.Text)
				if !ok {
					observability.ObservePipeline("extract", "miss")
					idx.byText[a.Text] = ""
					continue
				}
				observability.ObservePipeline("extract", "hit")
				idx.byText[a.Text] = name
				add(name)
			}
		}
	}
	return idx
}

// Enrich annotates every activity (and day location) with a verified
// reference link where one can be resolved. The raw sentinel form passes
// through untouched.
func (s *EnrichmentService) Enrich(ctx context.Context, it domain.Itinerary) domain.Itinerary {
	if it.IsRaw() || len(it.Days) == 0 {
		return it
	}
	return s.annotate(ctx, it, s.index(it))
}

// CollectAttractions geocodes the deduplicated candidate names, capped to the
// first maxAttractions in encounter order. Output order is completion order;
// it contains no duplicates and no entry for failed names.
func (s *EnrichmentService) CollectAttractions(ctx context.Context, it domain.Itinerary, contextHint string) []domain.Attraction {
	if it.IsRaw() || len(it.Days) == 0 {
		return nil
	}
	return s.geocodeBatch(ctx, s.index(it).names, contextHint)
}

// EnrichTrip runs both traversals concurrently over one shared extraction
// pass. Neither depends on the other's output.
func (s *EnrichmentService) EnrichTrip(ctx context.Context, it domain.Itinerary, contextHint string) domain.EnrichmentResult {
	if it.IsRaw() || len(it.Days) == 0 {
		return domain.EnrichmentResult{EnrichedItinerary: it, Attractions: []domain.Attraction{}}
	}
	idx := s.index(it)

	var (
		enriched    domain.Itinerary
		attractions []domain.Attraction
		wg          sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		enriched = s.annotate(ctx, it, idx)
	}()
	go func() {
		defer wg.Done()
		attractions = s.geocodeBatch(ctx, idx.names, contextHint)
	}()
	wg.Wait()

	if attractions == nil {
		attractions = []domain.Attraction{}
	}
	return domain.EnrichmentResult{EnrichedItinerary: enriched, Attractions: attractions}
}

func (s *EnrichmentService) annotate(ctx context.Context, it domain.Itinerary, idx nameIndex) domain.Itinerary {
	ctx, cancel := s.scope(ctx)
	defer cancel()

	links := s.resolveLinks(ctx, idx.names)

	out := domain.Itinerary{Days: make(map[string]domain.DayPlan, len(it.Days))}
	for key, day := range it.Days {
		d := day
		if loc := strings.TrimSpace(day.Location); loc != "" {
			if l, ok := links[loc]; ok {
				d.LocationLink = l
			}
		}
		d.Morning = annotateSlot(day.Morning, idx, links)
		d.Afternoon = annotateSlot(day.Afternoon, idx, links)
		d.Evening = annotateSlot(day.Evening, idx, links)
		out.Days[key] = d
	}
	return out
}

func annotateSlot(in []domain.Activity, idx nameIndex, links map[string]string) []domain.Activity {
	if in == nil {
		return nil
	}
	out := make([]domain.Activity, len(in))
	for i, a := range in {
		na := domain.Activity{Text: a.Text}
		if name := idx.byText[a.Text]; name != "" {
			na.AttractionName = name
			na.ReferenceLink = links[name]
		}
		out[i] = na
	}
	return out
}

// resolveLinks resolves the whole name set as one bounded concurrent batch.
// Failures are dropped positionally; one name's failure never affects its
// siblings.
func (s *EnrichmentService) resolveLinks(ctx context.Context, names []string) map[string]string {
	out := make(map[string]string, len(names))
	if len(names) == 0 {
		return out
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = semaphore.NewWeighted(s.workers)
	)
	for _, name := range names {
		if err := sem.Acquire(ctx, 1); err != nil {
			break // batch abandoned; keep what already resolved
		}
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			defer sem.Release(1)
			link, err := s.links.Resolve(ctx, name)
			if err != nil {
				observability.ObservePipeline("link", "miss")
				log.Debug().Err(err).Str("name", name).Msg("reference link unresolved")
				return
			}
			observability.ObservePipeline("link", "hit")
			mu.Lock()
			out[name] = link
			mu.Unlock()
		}(name)
	}
	wg.Wait()
	return out
}

func (s *EnrichmentService) geocodeBatch(ctx context.Context, names []string, hint string) []domain.Attraction {
	if len(names) == 0 {
		return nil
	}
	ctx, cancel := s.scope(ctx)
	defer cancel()

	if len(names) > s.maxAttractions {
		log.Info().Int("total", len(names)).Int("cap", s.maxAttractions).Msg("capping attraction batch")
		names = names[:s.maxAttractions]
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = semaphore.NewWeighted(s.workers)
	)
	out := make([]domain.Attraction, 0, len(names))
	for _, name := range names {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			defer sem.Release(1)
			pt, err := s.geocode(ctx, name, hint)
			if err != nil {
				observability.ObservePipeline("geocode", "miss")
				log.Debug().Err(err).Str("name", name).Msg("geocode miss")
				return
			}
			observability.ObservePipeline("geocode", "hit")
			att := domain.Attraction{Name: name, Coordinate: pt}
			if link, lerr := s.links.Resolve(ctx, name); lerr == nil {
				att.ReferenceLink = link
			}
			mu.Lock()
			out = append(out, att)
			mu.Unlock()
		}(name)
	}
	wg.Wait()
	return out
}

// geocode consults the optional response cache before the network. Only the
// raw name->coordinate mapping is cached; request-scoped structures are not.
func (s *EnrichmentService) geocode(ctx context.Context, name, hint string) (domain.GeoPoint, error) {
	key := "geo:" + name + ":" + hint
	if s.cache != nil {
		var pt domain.GeoPoint
		if ok, _ := s.cache.Get(ctx, key, &pt); ok {
			return pt, nil
		}
	}
	pt, err := s.geo.Geocode(ctx, name, hint)
	if err != nil {
		return domain.GeoPoint{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, pt, int(s.cacheTTL.Seconds()))
	}
	return pt, nil
}

// scope applies the optional batch-level outer timeout.
func (s *EnrichmentService) scope(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.batchTimeout > 0 {
		return context.WithTimeout(ctx, s.batchTimeout)
	}
	return context.WithCancel(ctx)
}
