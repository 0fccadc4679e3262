package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"trip_atlas/internal/app"
	"trip_atlas/internal/domain"
)

type Handlers struct{ Enrich *app.EnrichmentService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type enrichRequest struct {
	Itinerary domain.Itinerary `json:"itinerary"`
	Country   string           `json:"country"`
	Locations string           `json:"locations,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/trips/enrich", h.enrichTrip)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func (h *Handlers) enrichTrip(w http.ResponseWriter, r *http.Request) {
	var req enrichRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be a JSON enrichment request")
		return
	}
	if strings.TrimSpace(req.Country) == "" {
		writeProblem(w, http.StatusBadRequest, "Missing Country", "country is required")
		return
	}

	hint := app.BuildContextHint(req.Country, req.Locations)
	res := h.Enrich.EnrichTrip(r.Context(), req.Itinerary, hint)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Error().Err(err).Msg("failed to write enrichTrip body")
	}
}
