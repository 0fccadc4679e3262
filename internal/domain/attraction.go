package domain

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Attraction is a mappable point derived from itinerary text. Derived per
// request, never persisted.
type Attraction struct {
	Name          string   `json:"name"`
	Coordinate    GeoPoint `json:"location"`
	ReferenceLink string   `json:"wiki,omitempty"`
}

// EnrichmentResult is the caller-facing shape: the annotated itinerary plus
// the flat list of geocoded points.
type EnrichmentResult struct {
	EnrichedItinerary Itinerary    `json:"enrichedItinerary"`
	Attractions       []Attraction `json:"attractions"`
}
