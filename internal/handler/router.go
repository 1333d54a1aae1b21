package handler

import (
	"io/fs"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/joestump/tool-advisor/internal/advisor"
	"github.com/joestump/tool-advisor/internal/api"
	"github.com/joestump/tool-advisor/internal/i18n"
	"github.com/joestump/tool-advisor/web"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	SessionManager *scs.SessionManager
	Advisor        *advisor.Client
	Catalog        *i18n.Catalog
	Logger         *zap.Logger
	SecureCookies  bool
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	if deps.Catalog == nil {
		deps.Catalog = i18n.Indonesian
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Static assets (embedded). Use fs.Sub so the file server sees
	// css/app.css and js/app.js directly, not static/css/... paths.
	staticSub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("failed to sub static FS: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static", http.FileServerFS(staticSub)))

	// JSON API for other front-ends. Sessionless.
	r.Mount("/api/v1", api.NewAPIRouter(api.Deps{
		Advisor: deps.Advisor,
		Catalog: deps.Catalog,
		Logger:  deps.Logger,
	}))

	th := &themes{sessions: deps.SessionManager, secure: deps.SecureCookies, logger: deps.Logger}
	themeHandler := NewThemeHandler(th, deps.Catalog)
	recommend := NewRecommendHandler(deps.Advisor, th, deps.Catalog, deps.Logger)

	// Browser routes: the session carries the theme preference.
	r.Group(func(r chi.Router) {
		if deps.SessionManager != nil {
			r.Use(deps.SessionManager.LoadAndSave)
		}
		r.Use(clientHints)

		r.Get("/", recommend.Index)
		r.Post("/recommend", recommend.Submit)
		r.Post("/theme", themeHandler.Toggle)
	})

	return r
}
