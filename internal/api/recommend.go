package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/joestump/tool-advisor/internal/advisor"
	"github.com/joestump/tool-advisor/internal/i18n"
	"github.com/joestump/tool-advisor/internal/view"
)

const maxRequestBytes = 1 << 20

// RecommendResponse wraps a rendered page with the upstream status.
type RecommendResponse struct {
	Status int        `json:"status"`
	Page   *view.Page `json:"page"`
}

type recommendAPIHandler struct {
	advisor *advisor.Client
	catalog *i18n.Catalog
	logger  *zap.Logger
}

func (h *recommendAPIHandler) builder(r *http.Request) *view.Builder {
	return view.NewBuilder(i18n.Match(r.Header.Get("Accept-Language"), h.catalog), h.logger)
}

// Options proxies the option lists.
// GET /api/v1/options
func (h *recommendAPIHandler) Options(w http.ResponseWriter, r *http.Request) {
	opts, err := h.advisor.Options(r.Context())
	if err != nil {
		h.logger.Warn("load options failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "options unavailable", "upstream_unavailable")
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// Recommend submits a request upstream and returns the rendered page. A
// rejected request keeps the upstream status and returns the error page.
// POST /api/v1/recommend
func (h *recommendAPIHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req advisor.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	resp, err := h.advisor.Recommend(r.Context(), req)
	switch {
	case errors.Is(err, advisor.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), "validation_failed")
		return
	case errors.Is(err, advisor.ErrNetwork):
		h.logger.Warn("recommendation server unreachable", zap.Error(err))
		writeError(w, http.StatusBadGateway, "recommendation server unreachable", "upstream_unreachable")
		return
	case errors.Is(err, advisor.ErrInvalidBody):
		h.logger.Warn("invalid recommendation response", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error(), "invalid_upstream_body")
		return
	case errors.Is(err, advisor.ErrBodyTooLarge):
		h.logger.Warn("recommendation response too large", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error(), "upstream_body_too_large")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}

	b := h.builder(r)
	if !resp.OK() {
		writeJSON(w, resp.Status, RecommendResponse{Status: resp.Status, Page: b.BuildError(resp.Raw)})
		return
	}
	writeJSON(w, http.StatusOK, RecommendResponse{Status: resp.Status, Page: b.Build(resp.Result)})
}

// Render builds the view-model for a result supplied by the caller.
// POST /api/v1/render
func (h *recommendAPIHandler) Render(w http.ResponseWriter, r *http.Request) {
	var res advisor.Result
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&res); err != nil {
		writeError(w, http.StatusBadRequest, "body must be a recommendation object", "bad_request")
		return
	}
	writeJSON(w, http.StatusOK, h.builder(r).Build(&res))
}
