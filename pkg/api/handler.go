// Package api provides the HTTP endpoints of the generation server.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/achneerov/dreamrender/pkg/audit"
	"github.com/achneerov/dreamrender/pkg/generate"
	"github.com/achneerov/dreamrender/pkg/health"
	"github.com/achneerov/dreamrender/pkg/images"
	"github.com/achneerov/dreamrender/pkg/middleware"
)

// Generator streams a generated page. generate.Orchestrator satisfies it.
type Generator interface {
	Generate(ctx context.Context, req generate.Request, emit func(fragment string) error) (generate.Result, error)
}

// Deps holds the handler's collaborators. Nil optional fields disable
// their routes.
type Deps struct {
	Generator Generator
	Images    images.Searcher
	Audit     audit.Logger
	Health    *health.Checker
	Chain     *middleware.Chain
}

// Handler serves the generation API.
type Handler struct {
	mux  *http.ServeMux
	deps Deps
	root http.Handler
}

// NewHandler creates a new API handler.
func NewHandler(deps Deps) *Handler {
	h := &Handler{
		mux:  http.NewServeMux(),
		deps: deps,
	}
	h.registerRoutes()

	h.root = h.mux
	if deps.Chain != nil {
		h.root = deps.Chain.Wrap(h.mux)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.root.ServeHTTP(w, r)
}

// registerRoutes registers all API routes.
func (h *Handler) registerRoutes() {
	if h.deps.Generator != nil {
		h.mux.HandleFunc("POST /api/generate", h.generate)
	}
	if h.deps.Images != nil {
		h.mux.HandleFunc("GET /api/images/search", h.searchImages)
	}
	if h.deps.Audit != nil {
		h.mux.HandleFunc("GET /api/v1/generations", h.listGenerations)
	}
	if h.deps.Health != nil {
		h.mux.HandleFunc("GET /healthz", h.deps.Health.LivenessHandler())
		h.mux.HandleFunc("GET /readyz", h.deps.Health.ReadinessHandler())
	}
	h.mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, errorResponse{Error: msg, Details: details})
}
