package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/tool-advisor/internal/advisor"
	"github.com/joestump/tool-advisor/internal/api"
	"github.com/joestump/tool-advisor/internal/view"
)

const steelTurning = `{"recommendation":{"workpiece":"Steel","operation":"turning","chosen_tool":"Carbide","general_notes":"Use coolant"}}`

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error, body.Code
}

func TestOptions_OK(t *testing.T) {
	env := newTestEnv(t, respond(http.StatusOK, `{"workpieces":["Steel"],"tool_materials":["Carbide","HSS"]}`))

	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/options", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var opts advisor.Options
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&opts))
	assert.Equal(t, []string{"Steel"}, opts.Workpieces)
	assert.Equal(t, []string{"Carbide", "HSS"}, opts.ToolMaterials)
}

func TestOptions_UpstreamDown(t *testing.T) {
	env := newTestEnv(t, respond(http.StatusInternalServerError, `{}`))

	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/options", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	_, code := decodeError(t, rec)
	assert.Equal(t, "upstream_unavailable", code)
}

func TestRecommend_OK(t *testing.T) {
	env := newTestEnv(t, respond(http.StatusOK, steelTurning))

	body := `{"workpiece_material":"Steel","tool_material":null,"operation":null}`
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, httptest.NewRequest("POST", "/recommend", bytes.NewBufferString(body)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp api.RecommendResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, http.StatusOK, resp.Status)
	require.NotNil(t, resp.Page)
	assert.False(t, resp.Page.Error)
	require.NotNil(t, resp.Page.Table)
	assert.Len(t, resp.Page.Table.Rows, 4)
	require.NotNil(t, resp.Page.Narrative)
	assert.Contains(t, resp.Page.Narrative.IntroText(), "Carbide")
}

func TestRecommend_MissingWorkpieceNeverHitsUpstream(t *testing.T) {
	env := newTestEnv(t, respond(http.StatusOK, steelTurning))

	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, httptest.NewRequest("POST", "/recommend", bytes.NewBufferString(`{"workpiece_material":"  "}`)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	_, code := decodeError(t, rec)
	assert.Equal(t, "validation_failed", code)
	assert.Zero(t, env.Hits.Load())
}

func TestRecommend_MalformedBody(t *testing.T) {
	env := newTestEnv(t, respond(http.StatusOK, steelTurning))

	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, httptest.NewRequest("POST", "/recommend", strings.NewReader(`{"workpiece_material":`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, env.Hits.Load())
}

func TestRecommend_UpstreamRejectionKeepsStatus(t *testing.T) {
	env := newTestEnv(t, respond(http.StatusNotFound, `{"error":"not found"}`))

	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, httptest.NewRequest("POST", "/recommend", bytes.NewBufferString(`{"workpiece_material":"Unobtainium"}`)))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp api.RecommendResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, http.StatusNotFound, resp.Status)
	require.NotNil(t, resp.Page)
	assert.True(t, resp.Page.Error)
	assert.Nil(t, resp.Page.Table)
	assert.Nil(t, resp.Page.Narrative)
	assert.Contains(t, resp.Page.RawJSON, "not found")
}

func TestRecommend_InvalidUpstreamBody(t *testing.T) {
	env := newTestEnv(t, respond(http.StatusOK, `<html>oops</html>`))

	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, httptest.NewRequest("POST", "/recommend", bytes.NewBufferString(`{"workpiece_material":"Steel"}`)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	_, code := decodeError(t, rec)
	assert.Equal(t, "invalid_upstream_body", code)
}

func TestRecommend_UpstreamUnreachable(t *testing.T) {
	env := newTestEnv(t, respond(http.StatusOK, steelTurning))
	env.Upstream.Close()

	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, httptest.NewRequest("POST", "/recommend", bytes.NewBufferString(`{"workpiece_material":"Steel"}`)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	_, code := decodeError(t, rec)
	assert.Equal(t, "upstream_unreachable", code)
}

func TestRender_OK(t *testing.T) {
	env := newTestEnv(t, respond(http.StatusOK, `{}`))

	body := `{"workpiece":"Steel","operation":"turning","recommendations":{"CarbideInsert":{"rake":"5°"}}}`
	req := httptest.NewRequest("POST", "/render", bytes.NewBufferString(body))
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var page view.Page
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	require.NotNil(t, page.Narrative)
	assert.Contains(t, page.Narrative.IntroText(), "CarbideInsert")
	assert.Zero(t, env.Hits.Load())
}

func TestRender_RejectsNonObject(t *testing.T) {
	env := newTestEnv(t, respond(http.StatusOK, `{}`))

	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, httptest.NewRequest("POST", "/render", bytes.NewBufferString(`["Steel"]`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, respond(http.StatusOK, `{}`))

	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestRecommend_NormalizesBeforeSending(t *testing.T) {
	var sent map[string]any
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
			t.Errorf("decode upstream body: %v", err)
		}
		respond(http.StatusOK, steelTurning)(w, r)
	})

	body := `{"workpiece_material":"  Steel ","tool_material":"","operation":"  "}`
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, httptest.NewRequest("POST", "/recommend", bytes.NewBufferString(body)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, sent)
	assert.Equal(t, "Steel", sent["workpiece_material"])
	assert.Contains(t, sent, "tool_material")
	assert.Nil(t, sent["tool_material"])
	assert.Contains(t, sent, "operation")
	assert.Nil(t, sent["operation"])
}

func TestRecommend_UpstreamBodyTooLarge(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"recommendation":{"workpiece":"`))
		_, _ = w.Write(bytes.Repeat([]byte("x"), 5<<20))
		_, _ = w.Write([]byte(`"}}`))
	})

	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, httptest.NewRequest("POST", "/recommend", bytes.NewBufferString(`{"workpiece_material":"Steel"}`)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	_, code := decodeError(t, rec)
	assert.Equal(t, "upstream_body_too_large", code)
}
