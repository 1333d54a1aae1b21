package handler

import (
	"encoding/json"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"go.uber.org/zap"

	"github.com/joestump/tool-advisor/internal/i18n"
	"github.com/joestump/tool-advisor/internal/theme"
)

// themes builds a per-request theme.Controller over the session and the
// theme cookie. It is the only code in this package that knows where the
// preference lives.
type themes struct {
	sessions *scs.SessionManager
	secure   bool
	logger   *zap.Logger
}

func (t *themes) controller(w http.ResponseWriter, r *http.Request) *theme.Controller {
	store := theme.MultiStore{
		theme.NewSessionStore(t.sessions),
		theme.NewCookieStore(w, r, t.secure),
	}
	return theme.NewController(store, t.logger)
}

// current resolves the theme for rendering a page.
func (t *themes) current(w http.ResponseWriter, r *http.Request) theme.Theme {
	return t.controller(w, r).Load(r.Context(), theme.HintFromRequest(r))
}

// ThemeHandler handles the theme toggle endpoint.
type ThemeHandler struct {
	themes  *themes
	catalog *i18n.Catalog
}

// NewThemeHandler creates a new ThemeHandler.
func NewThemeHandler(t *themes, cat *i18n.Catalog) *ThemeHandler {
	return &ThemeHandler{themes: t, catalog: cat}
}

// Toggle handles POST /theme.
// The form field "current" is the data-theme marker the page had when the
// button was pressed; without it the stored preference is flipped. Returns
// the re-rendered toggle plus an HX-Trigger for the client-side swap, or a
// redirect to the form for plain posts.
func (h *ThemeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	ctrl := h.themes.controller(w, r)
	var current theme.Theme
	if _, ok := r.PostForm["current"]; ok {
		current = theme.Marker(r.PostForm.Get("current"))
	} else {
		current = ctrl.Load(r.Context(), theme.HintFromRequest(r))
	}
	next := ctrl.Toggle(r.Context(), current)

	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	trigger, _ := json.Marshal(map[string]any{
		"themeChanged": map[string]string{"theme": string(next)},
	})
	w.Header().Set("HX-Trigger", string(trigger))
	renderFragment(w, "theme_toggle", newBasePage(next, i18n.Match(r.Header.Get("Accept-Language"), h.catalog)))
}

// clientHints asks browsers to send the color-scheme hint. Critical-CH makes
// a supporting browser retry the first request with the hint; browsers
// without client hints fall back to matchMedia in the page head.
func clientHints(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Accept-CH", theme.HintHeader)
		w.Header().Set("Critical-CH", theme.HintHeader)
		w.Header().Add("Vary", theme.HintHeader)
		next.ServeHTTP(w, r)
	})
}
