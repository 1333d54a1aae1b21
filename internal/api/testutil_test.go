package api_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/tool-advisor/internal/advisor"
	"github.com/joestump/tool-advisor/internal/api"
	"github.com/joestump/tool-advisor/internal/i18n"
)

// testEnv holds an API router wired to a fake recommendation server.
type testEnv struct {
	Router   chi.Router
	Upstream *httptest.Server
	Hits     *atomic.Int32
}

func newTestEnv(t *testing.T, h http.HandlerFunc) *testEnv {
	t.Helper()
	hits := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	router := api.NewAPIRouter(api.Deps{
		Advisor: advisor.NewClientWithHTTP(srv.URL, srv.Client()),
		Catalog: i18n.English,
	})
	return &testEnv{Router: router, Upstream: srv, Hits: hits}
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}
