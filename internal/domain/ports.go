package domain

import (
	"context"
	"errors"
)

var (
	// ErrNoMatch: the geocoding service answered but had no usable result.
	ErrNoMatch = errors.New("geocode: no match")
	// ErrUnverified: the constructed reference link failed its existence probe.
	ErrUnverified = errors.New("reference link: unverified")
)

type Geocoder interface {
	Geocode(ctx context.Context, name, contextHint string) (GeoPoint, error)
}

type LinkResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
