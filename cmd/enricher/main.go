package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"trip_atlas/internal/adapters/nominatim"
	"trip_atlas/internal/adapters/observability"
	redisad "trip_atlas/internal/adapters/redis"
	"trip_atlas/internal/adapters/wiki"
	"trip_atlas/internal/app"
	"trip_atlas/internal/domain"
	"trip_atlas/internal/extract"
	"trip_atlas/internal/shared"
)

// enricher runs the enrichment pipeline over itinerary JSON files, writing
// <name>.enriched.json next to each input. Per-file failures are logged and
// skipped.
func main() {
	ctx := context.Background()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	country := flag.String("country", "", "destination country for the geocoding context hint")
	locations := flag.String("locations", "", "optional comma-separated cities")
	flag.Parse()
	files := flag.Args()
	if *country == "" || len(files) == 0 {
		log.Fatal().Msg("usage: enricher -country <country> [-locations <cities>] <itinerary.json>...")
	}

	var tagger extract.Tagger = extract.ProseTagger{}
	if cfg.Tagger == "regex" {
		tagger = extract.NoopTagger{}
	}
	ex := extract.New(extract.DefaultVocab(), tagger)

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	}

	svc := app.NewEnrichmentService(
		ex,
		nominatim.New(cfg.NominatimBase, cfg.GeocodeTimeout, cfg.GeocodeStagger),
		wiki.New(cfg.WikiBase, cfg.ProbeTimeout),
		app.Params{
			Cache:          cache,
			CacheTTL:       cfg.CacheTTL,
			Workers:        cfg.Workers,
			MaxAttractions: cfg.MaxAttractions,
			BatchTimeout:   cfg.BatchTimeout,
		},
	)
	hint := app.BuildContextHint(*country, *locations)

	log.Info().Int("files", len(files)).Str("hint", hint).Msg("enricher starting")

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup
	for _, path := range files {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer sem.Release(1)
			if err := enrichFile(ctx, svc, path, hint); err != nil {
				log.Warn().Str("file", path).Err(err).Msg("enrich failed")
				return
			}
			log.Info().Str("file", path).Msg("enriched")
		}(path)
	}
	wg.Wait()
	log.Info().Msg("enrichment completed")
}

func enrichFile(ctx context.Context, svc *app.EnrichmentService, path, hint string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var it domain.Itinerary
	if err := json.Unmarshal(b, &it); err != nil {
		return err
	}
	res := svc.EnrichTrip(ctx, it, hint)
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(strings.TrimSuffix(path, ".json")+".enriched.json", out, 0o644)
}
