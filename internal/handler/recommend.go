package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/joestump/tool-advisor/internal/advisor"
	"github.com/joestump/tool-advisor/internal/i18n"
	"github.com/joestump/tool-advisor/internal/view"
)

// FormValues are the submitted selections, echoed back so a full-page
// re-render keeps them selected.
type FormValues struct {
	Workpiece string
	Tool      string
	Operation string
}

// ResultData is the template data for the "result" partial.
type ResultData struct {
	T    *i18n.Catalog
	Page *view.Page
}

// IndexPage is the template data for the recommendation form.
type IndexPage struct {
	BasePage
	Options       *advisor.Options
	OptionsFailed bool
	Operations    []string
	Form          FormValues
	Flash         *Flash
	Result        *ResultData
}

// RecommendHandler serves the form and its submissions.
type RecommendHandler struct {
	advisor *advisor.Client
	themes  *themes
	catalog *i18n.Catalog
	logger  *zap.Logger
}

// NewRecommendHandler creates a new RecommendHandler.
func NewRecommendHandler(c *advisor.Client, t *themes, cat *i18n.Catalog, logger *zap.Logger) *RecommendHandler {
	return &RecommendHandler{advisor: c, themes: t, catalog: cat, logger: logger}
}

func (h *RecommendHandler) catalogFor(r *http.Request) *i18n.Catalog {
	return i18n.Match(r.Header.Get("Accept-Language"), h.catalog)
}

// indexPage resolves the theme and loads the option lists. A failing
// options endpoint leaves empty lists so the form still renders.
func (h *RecommendHandler) indexPage(w http.ResponseWriter, r *http.Request) IndexPage {
	cat := h.catalogFor(r)
	page := IndexPage{
		BasePage:   newBasePage(h.themes.current(w, r), cat),
		Operations: advisor.Operations,
	}
	opts, err := h.advisor.Options(r.Context())
	if err != nil {
		h.logger.Warn("load options failed", zap.Error(err))
		opts = advisor.EmptyOptions()
		page.OptionsFailed = true
	}
	page.Options = opts
	return page
}

// Index renders the form.
// GET /
func (h *RecommendHandler) Index(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, "index.html", h.indexPage(w, r))
}

// Submit handles POST /recommend.
// HTMX requests get the "result" partial, or a 204 with an HX-Trigger
// showAlert event when the request never produced a result. Plain form posts
// get the whole page.
func (h *RecommendHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	form := FormValues{
		Workpiece: r.PostForm.Get("workpiece_material"),
		Tool:      r.PostForm.Get("tool_material"),
		Operation: r.PostForm.Get("operation"),
	}
	cat := h.catalogFor(r)

	resp, err := h.advisor.Recommend(r.Context(), advisor.NewRequest(form.Workpiece, form.Tool, form.Operation))
	if err != nil {
		h.alert(w, r, form, err)
		return
	}

	builder := view.NewBuilder(cat, h.logger)
	var result *view.Page
	if resp.OK() {
		result = builder.Build(resp.Result)
	} else {
		h.logger.Info("recommendation rejected", zap.Int("status", resp.Status))
		result = builder.BuildError(resp.Raw)
	}
	data := &ResultData{T: cat, Page: result}

	if isHTMX(r) {
		renderFragment(w, "result", data)
		return
	}
	page := h.indexPage(w, r)
	page.Form = form
	page.Result = data
	render(w, http.StatusOK, "index.html", page)
}

func (h *RecommendHandler) alert(w http.ResponseWriter, r *http.Request, form FormValues, err error) {
	cat := h.catalogFor(r)
	msg, status := alertMessage(cat, err)
	if status == http.StatusUnprocessableEntity {
		h.logger.Debug("submission rejected", zap.Error(err))
	} else {
		h.logger.Warn("recommendation failed", zap.Error(err))
	}

	if isHTMX(r) {
		trigger, _ := json.Marshal(map[string]any{
			"showAlert": map[string]string{"message": msg},
		})
		w.Header().Set("HX-Trigger", string(trigger))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	page := h.indexPage(w, r)
	page.Form = form
	page.Flash = &Flash{Type: "error", Message: msg}
	render(w, status, "index.html", page)
}

// alertMessage maps a Recommend error to the user-facing alert and the
// status used for non-HTMX responses.
func alertMessage(cat *i18n.Catalog, err error) (string, int) {
	var netErr *advisor.NetworkError
	switch {
	case errors.Is(err, advisor.ErrValidation):
		return cat.AlertValidation, http.StatusUnprocessableEntity
	case errors.As(err, &netErr):
		return fmt.Sprintf(cat.AlertNetwork, netErr.Err), http.StatusBadGateway
	case errors.Is(err, advisor.ErrInvalidBody):
		return cat.AlertInvalidBody, http.StatusBadGateway
	case errors.Is(err, advisor.ErrBodyTooLarge):
		return cat.AlertTooLarge, http.StatusBadGateway
	default:
		return cat.AlertGeneric, http.StatusInternalServerError
	}
}
