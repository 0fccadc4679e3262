package shared

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	NominatimBase  string
	WikiBase       string
	GeocodeTimeout time.Duration
	GeocodeStagger time.Duration
	ProbeTimeout   time.Duration

	Workers        int
	MaxAttractions int
	BatchTimeout   time.Duration
	Tagger         string // prose|regex

	RedisAddr string
	RedisPass string
	RedisDB   int
	CacheTTL  time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	return Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),

		NominatimBase:  env("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		WikiBase:       env("WIKI_BASE_URL", "https://en.wikipedia.org"),
		GeocodeTimeout: time.Duration(atoi("GEOCODE_TIMEOUT_SECONDS", 10)) * time.Second,
		GeocodeStagger: time.Duration(atoi("GEOCODE_STAGGER_MS", 150)) * time.Millisecond,
		ProbeTimeout:   time.Duration(atoi("PROBE_TIMEOUT_SECONDS", 5)) * time.Second,

		Workers:        atoi("ENRICH_WORKERS", 8),
		MaxAttractions: atoi("MAX_ATTRACTIONS", 8),
		BatchTimeout:   time.Duration(atoi("BATCH_TIMEOUT_SECONDS", 30)) * time.Second,
		Tagger:         env("TAGGER", "prose"),

		RedisAddr: env("REDIS_ADDR", ""),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		CacheTTL:  time.Duration(atoi("CACHE_TTL_SECONDS", 86400)) * time.Second,
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
