package wiki

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"trip_atlas/internal/adapters/observability"
	"trip_atlas/internal/domain"
)

// Resolver turns a place name into a verified encyclopedia link. An
// unverified guess is worse than no link, so the constructed URL is probed
// with a HEAD request before it is returned.
type Resolver struct {
	base string
	hc   *http.Client
	ua   string
}

func New(base string, timeout time.Duration) *Resolver {
	if base == "" {
		base = "https://en.wikipedia.org"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Resolver{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
		ua:   "trip-atlas/1.0",
	}
}

// URLFor builds the canonical article URL: spaces become underscores, the rest
// is percent-encoded.
func (r *Resolver) URLFor(name string) string {
	return r.base + "/wiki/" + url.PathEscape(strings.ReplaceAll(name, " ", "_"))
}

// Resolve verifies the constructed link. Article titles are case-sensitive in
// their first character, so a failed probe for a lowercase name is retried
// once with the first rune upper-cased.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < 3 {
		return "", domain.ErrUnverified
	}
	if u := r.probe(ctx, r.URLFor(name)); u != "" {
		return u, nil
	}
	if first, size := utf8.DecodeRuneInString(name); unicode.IsLower(first) {
		retry := string(unicode.ToUpper(first)) + name[size:]
		if u := r.probe(ctx, r.URLFor(retry)); u != "" {
			return u, nil
		}
	}
	return "", domain.ErrUnverified
}

// probe returns u when it resolves, "" otherwise. All probe failures are
// non-fatal.
func (r *Resolver) probe(ctx context.Context, u string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", r.ua)

	start := time.Now()
	resp, err := r.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("wikipedia", "probe", 0, time.Since(start))
		log.Debug().Err(err).Str("url", u).Msg("link probe failed")
		return ""
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	observability.ObserveExternal("wikipedia", "probe", resp.StatusCode, time.Since(start))

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusBadRequest {
		return u
	}
	return ""
}
