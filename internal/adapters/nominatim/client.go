package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"trip_atlas/internal/adapters/observability"
	"trip_atlas/internal/domain"
)

// Client geocodes place names against a Nominatim-compatible search endpoint.
// Geocoding is advisory: every failure mode the caller can hit (non-200, empty
// result set, parse failure, transport error) collapses to ErrNoMatch.
type Client struct {
	base string
	hc   *http.Client
	ua   string
	rl   *rate.Limiter
}

func New(base string, timeout, stagger time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if stagger <= 0 {
		stagger = 150 * time.Millisecond
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
		ua:   "trip-atlas/1.0",
		rl:   rate.NewLimiter(rate.Every(stagger), 1),
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode looks up "{name}, {contextHint}" and takes the first match only.
func (c *Client) Geocode(ctx context.Context, name, contextHint string) (domain.GeoPoint, error) {
	// Staggers dispatch onset per the service's usage policy. This is not a
	// lock: in-flight requests still overlap.
	if err := c.rl.Wait(ctx); err != nil {
		return domain.GeoPoint{}, domain.ErrNoMatch
	}

	q := name
	if contextHint != "" {
		q = name + ", " + contextHint
	}
	u := fmt.Sprintf("%s/search?%s", c.base, url.Values{
		"q":      {q},
		"format": {"json"},
		"limit":  {"1"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.GeoPoint{}, domain.ErrNoMatch
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.ua)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("nominatim", "search", 0, time.Since(start))
		log.Debug().Err(err).Str("name", name).Msg("geocode request failed")
		return domain.GeoPoint{}, domain.ErrNoMatch
	}
	defer resp.Body.Close()
	observability.ObserveExternal("nominatim", "search", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		log.Debug().Int("status", resp.StatusCode).Str("name", name).Msg("geocode returned non-200")
		return domain.GeoPoint{}, domain.ErrNoMatch
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		log.Debug().Err(err).Str("name", name).Msg("geocode response decode failed")
		return domain.GeoPoint{}, domain.ErrNoMatch
	}
	if len(results) == 0 {
		return domain.GeoPoint{}, domain.ErrNoMatch
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return domain.GeoPoint{}, domain.ErrNoMatch
	}
	return domain.GeoPoint{Latitude: lat, Longitude: lon}, nil
}
