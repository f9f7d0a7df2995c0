// Package server exposes the decision engines over HTTP, one point table per
// session. All numeric output is rounded to 6 decimal places here, at the
// presentation boundary; the engines themselves never round.
package server

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/locus-group/facility-cli/internal/config"
	"github.com/locus-group/facility-cli/internal/session"
)

// Handler serves the session-scoped facility-location API.
type Handler struct {
	store *session.Store
	cfg   *config.Config
}

// New creates a Handler backed by the given session store.
func New(store *session.Store, cfg *config.Config) *Handler {
	return &Handler{store: store, cfg: cfg}
}

// Router builds the chi router with all API routes mounted.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Delete("/", h.deleteSession)
			r.Put("/points", h.replacePoints)
			r.Post("/points", h.appendPoint)
			r.Post("/markers", h.syncMarkers)
			r.Get("/centroid", h.getCentroid)
			r.Post("/topsis", h.rankTopsis)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// round6 rounds to 6 decimal places for presentation.
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func round6Slice(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = round6(v)
	}
	return out
}

func round6Matrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = round6Slice(row)
	}
	return out
}
