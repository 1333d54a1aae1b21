package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alexedwards/scs/v2"
	"golang.org/x/net/html"

	"github.com/joestump/tool-advisor/internal/advisor"
	"github.com/joestump/tool-advisor/internal/i18n"
)

const (
	optionsBody  = `{"workpieces":["Steel","Aluminium"],"tool_materials":["Carbide","HSS"]}`
	steelTurning = `{"recommendation":{"workpiece":"Steel","operation":"turning","chosen_tool":"Carbide","general_notes":"Use coolant"}}`
)

// fakeUpstream answers the two recommendation server endpoints and counts
// POSTs to /api/recommend.
type fakeUpstream struct {
	srv        *httptest.Server
	recommends atomic.Int32
}

func newFakeUpstream(t *testing.T, optStatus int, optBody string, recStatus int, recBody string) *fakeUpstream {
	t.Helper()
	u := &fakeUpstream{}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/options":
			w.WriteHeader(optStatus)
			_, _ = io.WriteString(w, optBody)
		case "/api/recommend":
			u.recommends.Add(1)
			w.WriteHeader(recStatus)
			_, _ = io.WriteString(w, recBody)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(u.srv.Close)
	return u
}

func newTestRouter(t *testing.T, u *fakeUpstream) http.Handler {
	t.Helper()
	return NewRouter(Deps{
		SessionManager: scs.New(),
		Advisor:        advisor.NewClientWithHTTP(u.srv.URL, u.srv.Client()),
		Catalog:        i18n.English,
	})
}

func submit(router http.Handler, form url.Values, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/recommend", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func parseHTML(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func byID(n *html.Node, id string) *html.Node {
	found := findAll(n, func(n *html.Node) bool {
		v, ok := attr(n, "id")
		return ok && v == id
	})
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

func byTag(n *html.Node, tag string) []*html.Node {
	return findAll(n, func(n *html.Node) bool { return n.Data == tag })
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func TestIndex_RendersOptions(t *testing.T) {
	u := newFakeUpstream(t, http.StatusOK, optionsBody, http.StatusOK, steelTurning)
	rec := httptest.NewRecorder()
	newTestRouter(t, u).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	doc := parseHTML(t, rec.Body.String())

	wp := byID(doc, "workpiece_material")
	if wp == nil {
		t.Fatal("workpiece select missing")
	}
	if n := len(byTag(wp, "option")); n != 2 {
		t.Errorf("workpiece options = %d, want 2", n)
	}

	tm := byID(doc, "tool_material")
	if tm == nil {
		t.Fatal("tool select missing")
	}
	opts := byTag(tm, "option")
	if len(opts) != 3 {
		t.Fatalf("tool options = %d, want 3", len(opts))
	}
	if v, _ := attr(opts[0], "value"); v != "" {
		t.Errorf("first tool option value = %q, want empty", v)
	}
	if got := textOf(opts[0]); got != i18n.English.ToolDefault {
		t.Errorf("first tool option = %q", got)
	}

	if byID(doc, "result") == nil {
		t.Error("empty result container missing")
	}
	if rec.Header().Get("Accept-CH") == "" {
		t.Error("Accept-CH header missing")
	}
}

func TestIndex_OptionsFailureStillRendersForm(t *testing.T) {
	u := newFakeUpstream(t, http.StatusInternalServerError, `{}`, http.StatusOK, steelTurning)
	rec := httptest.NewRecorder()
	newTestRouter(t, u).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	doc := parseHTML(t, rec.Body.String())

	wp := byID(doc, "workpiece_material")
	tm := byID(doc, "tool_material")
	if wp == nil || tm == nil {
		t.Fatal("selects missing")
	}
	if n := len(byTag(wp, "option")); n != 0 {
		t.Errorf("workpiece options = %d, want 0", n)
	}
	if n := len(byTag(tm, "option")); n != 1 {
		t.Errorf("tool options = %d, want only the default", n)
	}
	if !strings.Contains(rec.Body.String(), i18n.English.OptionsUnavailable) {
		t.Error("options notice missing")
	}
}

func TestSubmit_SuccessFragment(t *testing.T) {
	u := newFakeUpstream(t, http.StatusOK, optionsBody, http.StatusOK, steelTurning)
	rec := submit(newTestRouter(t, u), url.Values{"workpiece_material": {"Steel"}}, true)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if strings.Contains(body, "<html") && strings.Contains(body, "recForm") {
		t.Error("HTMX request got the full page")
	}
	doc := parseHTML(t, body)

	table := byID(doc, "resultTable")
	if table == nil {
		t.Fatal("resultTable missing")
	}
	tbody := byTag(table, "tbody")
	if len(tbody) != 1 {
		t.Fatalf("tbody count = %d", len(tbody))
	}
	if n := len(byTag(tbody[0], "tr")); n != 4 {
		t.Errorf("rows = %d, want 4", n)
	}

	details := byID(doc, "friendlyDetails")
	if details == nil {
		t.Fatal("friendlyDetails missing")
	}
	text := textOf(details)
	for _, s := range []string{"Steel", "turning", "Carbide"} {
		if !strings.Contains(text, s) {
			t.Errorf("narrative %q does not mention %q", text, s)
		}
	}
	if out := byID(doc, "jsonOut"); out == nil || !strings.Contains(textOf(out), `"chosen_tool": "Carbide"`) {
		t.Error("raw JSON panel missing or wrong")
	}
}

func TestSubmit_EmptyWorkpieceAlertsWithoutUpstreamCall(t *testing.T) {
	u := newFakeUpstream(t, http.StatusOK, optionsBody, http.StatusOK, steelTurning)
	rec := submit(newTestRouter(t, u), url.Values{"workpiece_material": {""}}, true)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	trigger := rec.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "showAlert") || !strings.Contains(trigger, i18n.English.AlertValidation) {
		t.Errorf("HX-Trigger = %q", trigger)
	}
	if n := u.recommends.Load(); n != 0 {
		t.Errorf("upstream recommend calls = %d, want 0", n)
	}
}

func TestSubmit_EmptyWorkpieceWithoutHTMX(t *testing.T) {
	u := newFakeUpstream(t, http.StatusOK, optionsBody, http.StatusOK, steelTurning)
	rec := submit(newTestRouter(t, u), url.Values{"workpiece_material": {"  "}}, false)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), i18n.English.AlertValidation) {
		t.Error("flash message missing")
	}
	if n := u.recommends.Load(); n != 0 {
		t.Errorf("upstream recommend calls = %d, want 0", n)
	}
}

func TestSubmit_ServerErrorShowsPayloadOnly(t *testing.T) {
	u := newFakeUpstream(t, http.StatusOK, optionsBody, http.StatusNotFound, `{"error":"not found"}`)
	rec := submit(newTestRouter(t, u), url.Values{"workpiece_material": {"Unobtainium"}}, true)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	doc := parseHTML(t, rec.Body.String())
	if byID(doc, "resultTable") != nil {
		t.Error("table shown for a server error")
	}
	if byID(doc, "friendlyDetails") != nil {
		t.Error("narrative shown for a server error")
	}
	out := byID(doc, "jsonOut")
	if out == nil || !strings.Contains(textOf(out), "not found") {
		t.Error("raw JSON does not show the server payload")
	}
	if expl := byID(doc, "explanation"); expl == nil || !strings.Contains(textOf(expl), i18n.English.ErrorMarker) {
		t.Error("error marker missing")
	}
}

func TestSubmit_InvalidBodyAlert(t *testing.T) {
	u := newFakeUpstream(t, http.StatusOK, optionsBody, http.StatusOK, `<html>`)
	rec := submit(newTestRouter(t, u), url.Values{"workpiece_material": {"Steel"}}, true)

	if got := rec.Header().Get("HX-Trigger"); !strings.Contains(got, i18n.English.AlertInvalidBody) {
		t.Errorf("HX-Trigger = %q", got)
	}
}

func TestSubmit_NetworkFailureAlert(t *testing.T) {
	u := newFakeUpstream(t, http.StatusOK, optionsBody, http.StatusOK, steelTurning)
	router := newTestRouter(t, u)
	u.srv.Close()

	rec := submit(router, url.Values{"workpiece_material": {"Steel"}}, true)
	if got := rec.Header().Get("HX-Trigger"); !strings.Contains(got, "showAlert") || !strings.Contains(got, "Could not reach the server") {
		t.Errorf("HX-Trigger = %q", got)
	}
}

func TestSubmit_FullPageKeepsSelection(t *testing.T) {
	u := newFakeUpstream(t, http.StatusOK, optionsBody, http.StatusOK, steelTurning)
	rec := submit(newTestRouter(t, u), url.Values{
		"workpiece_material": {"Aluminium"},
		"tool_material":      {"HSS"},
		"operation":          {"finishing"},
	}, false)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	doc := parseHTML(t, rec.Body.String())
	selected := findAll(doc, func(n *html.Node) bool {
		_, ok := attr(n, "selected")
		return n.Data == "option" && ok
	})
	var values []string
	for _, n := range selected {
		v, _ := attr(n, "value")
		values = append(values, v)
	}
	if strings.Join(values, ",") != "Aluminium,HSS,finishing" {
		t.Errorf("selected = %v", values)
	}
	if byID(doc, "resultTable") == nil {
		t.Error("result missing from full page")
	}
}

func TestAlertMessage(t *testing.T) {
	cat := i18n.English
	tests := []struct {
		name       string
		err        error
		wantMsg    string
		wantStatus int
	}{
		{"validation", advisor.ErrValidation, cat.AlertValidation, http.StatusUnprocessableEntity},
		{"invalid body", fmt.Errorf("recommend: %w", advisor.ErrInvalidBody), cat.AlertInvalidBody, http.StatusBadGateway},
		{"too large", fmt.Errorf("POST /api/recommend: %w", advisor.ErrBodyTooLarge), cat.AlertTooLarge, http.StatusBadGateway},
		{"other", errors.New("boom"), cat.AlertGeneric, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, status := alertMessage(cat, tt.err)
			if msg != tt.wantMsg || status != tt.wantStatus {
				t.Errorf("alertMessage = (%q, %d), want (%q, %d)", msg, status, tt.wantMsg, tt.wantStatus)
			}
		})
	}
}
