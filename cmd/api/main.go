package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	server "trip_atlas/internal/adapters/http_server"
	"trip_atlas/internal/adapters/nominatim"
	"trip_atlas/internal/adapters/observability"
	redisad "trip_atlas/internal/adapters/redis"
	"trip_atlas/internal/adapters/wiki"
	"trip_atlas/internal/app"
	"trip_atlas/internal/domain"
	"trip_atlas/internal/extract"
	"trip_atlas/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	var tagger extract.Tagger = extract.ProseTagger{}
	if cfg.Tagger == "regex" {
		tagger = extract.NoopTagger{}
	}
	ex := extract.New(extract.DefaultVocab(), tagger)

	geo := nominatim.New(cfg.NominatimBase, cfg.GeocodeTimeout, cfg.GeocodeStagger)
	links := wiki.New(cfg.WikiBase, cfg.ProbeTimeout)

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		log.Info().Str("addr", cfg.RedisAddr).Msg("geocode response cache enabled")
	}

	svc := app.NewEnrichmentService(ex, geo, links, app.Params{
		Cache:          cache,
		CacheTTL:       cfg.CacheTTL,
		Workers:        cfg.Workers,
		MaxAttractions: cfg.MaxAttractions,
		BatchTimeout:   cfg.BatchTimeout,
	})

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Enrich: svc})

	log.Info().Str("addr", cfg.HTTPAddr).Str("tagger", cfg.Tagger).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
