// Package api serves the recommendation view-model as JSON under /api/v1.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/joestump/tool-advisor/internal/advisor"
	"github.com/joestump/tool-advisor/internal/i18n"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	Advisor *advisor.Client
	Catalog *i18n.Catalog
	Logger  *zap.Logger
}

// NewAPIRouter creates a chi sub-router for /api/v1.
func NewAPIRouter(deps Deps) chi.Router {
	if deps.Catalog == nil {
		deps.Catalog = i18n.Indonesian
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(jsonContentType)

	h := &recommendAPIHandler{advisor: deps.Advisor, catalog: deps.Catalog, logger: deps.Logger}
	r.Get("/options", h.Options)
	r.Post("/recommend", h.Recommend)
	r.Post("/render", h.Render)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found", "not_found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "method_not_allowed")
	})
	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
