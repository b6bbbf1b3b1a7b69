package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camino_routes/internal/accounts"
	"camino_routes/internal/controllers"
	"camino_routes/internal/drafts"
	"camino_routes/internal/editor"
	"camino_routes/internal/events"
	"camino_routes/internal/middleware"
	"camino_routes/internal/store"
	"camino_routes/internal/trail"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	repo   *store.Memory
	auth   *middleware.Auth
}

func newServer(t *testing.T, authEnabled bool) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	hub := events.NewHub()
	t.Cleanup(hub.Close)

	repo := store.NewMemory()
	decoder := trail.NewDecoder(nil)
	jwt := middleware.NewAuth("test-secret", authEnabled)

	router := SetupRouter(Deps{
		Routes: controllers.NewRouteController(repo, decoder, hub),
		Drafts: controllers.NewDraftController(drafts.NewStore(rdb, time.Hour), editor.New(decoder), repo, hub),
		Auth:   controllers.NewAuthController(accounts.NewMemory(), jwt),
		Feed:   controllers.NewFeedController(hub, jwt, nil),
		JWT:    jwt,
	})
	return &testServer{router: router, repo: repo, auth: jwt}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		r.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())
	return m
}

const routeBody = `{
  "route_id": "camino-del-norte",
  "route_name": "Camino del Norte",
  "avg_daily_distance": [
    {"avg_daily_distance_1": "Relaxed", "minimum_km": "15", "maximum_km": 20},
    {"range_value": "Steady", "minimum_km": 20, "maximum_km": "25"}
  ],
  "starting_point": [{"name": "Irún", "avg_distance": "830 km", "avg_daily": "24 km"}],
  "stages": [{
    "stage_number": 1,
    "stage_name": "Irún to San Sebastián",
    "distance_km": "25.7",
    "distance_miles": 16,
    "details": {
      "total_distance": "25.7 km", "total_time": "7 h", "accumulated_ascent": "750 m",
      "accumulated_descent": "740 m", "elevation_profile": "hilly",
      "walking_surface": ["trail"], "challenges": ["Jaizkibel climb"], "highlights": ["Pasaia ferry"]
    },
    "facilities": [{"index": 1, "name": "Pasai Donibane", "distance": "18 km", "services": ["Food_Drink"]}],
    "accommodations": [
      {"name": "Albergue Ulia", "price_category": "€", "lat": "43.32", "long": "-1.96"},
      {"name": "Pensión", "price_category": "€€"}
    ]
  }]
}`

func TestRoutes_CreateGetList(t *testing.T) {
	t.Parallel()
	s := newServer(t, false)

	w := s.do(t, http.MethodPost, "/api/routes", routeBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "camino-del-norte", created["route_id"])
	bands := created["avg_daily_distance"].([]any)
	assert.Equal(t, "Relaxed", bands[0].(map[string]any)["avg_daily_distance_1"])
	assert.Equal(t, "Steady", bands[1].(map[string]any)["avg_daily_distance_2"])
	assert.NotContains(t, bands[1], "range_value")

	w = s.do(t, http.MethodGet, "/api/routes/camino-del-norte?format=canonical", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.Equal(t, "Steady", got["avg_daily_distance"].([]any)[1].(map[string]any)["label"])
	stage := got["stages"].([]any)[0].(map[string]any)
	assert.Equal(t, 25.7, stage["distance_km"])

	w = s.do(t, http.MethodGet, "/api/routes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["routes"], 1)

	w = s.do(t, http.MethodGet, "/api/routes/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutes_CreateEnvelopeHonorsFirst(t *testing.T) {
	t.Parallel()
	s := newServer(t, false)

	second := strings.Replace(routeBody, "camino-del-norte", "second", 1)
	w := s.do(t, http.MethodPost, "/api/routes", `{"routes":[`+routeBody+`,`+second+`]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	all, err := s.repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "camino-del-norte", all[0].Route.RouteID)
}

func TestRoutes_CreateRejects(t *testing.T) {
	t.Parallel()
	s := newServer(t, false)

	tests := []struct {
		name string
		body string
		path string
	}{
		{name: "malformed json", body: `{"route_id":`, path: ""},
		{name: "missing route id", body: `{"route_name":"X","stages":[]}`, path: "route_id"},
		{name: "bad distance", body: `{"route_id":"r","route_name":"X","stages":[{"stage_number":1,"stage_name":"s","distance_km":"far"}]}`, path: "stages[0].distance_km"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/routes", tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
			var body struct {
				Fields []trail.FieldError `json:"fields"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			var paths []string
			for _, f := range body.Fields {
				paths = append(paths, f.Path)
			}
			assert.Contains(t, paths, tt.path)
		})
	}

	all, err := s.repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRoutes_UpdateReplaces(t *testing.T) {
	t.Parallel()
	s := newServer(t, false)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/routes", routeBody).Code)

	update := `{"route_name":"Norte (revised)","stages":[
		{"stage_number":1,"stage_name":"A","details":{"total_distance":"","total_time":"","accumulated_ascent":"",
		"accumulated_descent":"","elevation_profile":"","walking_surface":[],"challenges":[],"highlights":[]}}]}`
	w := s.do(t, http.MethodPut, "/api/routes/camino-del-norte", update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode(t, w)
	assert.Equal(t, "camino-del-norte", got["route_id"])
	assert.Equal(t, "Norte (revised)", got["route_name"])
	assert.Len(t, got["stages"], 1)
	assert.Equal(t, []any{}, got["avg_daily_distance"])

	w = s.do(t, http.MethodPut, "/api/routes/missing", update)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutes_Export(t *testing.T) {
	t.Parallel()
	s := newServer(t, false)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/routes", routeBody).Code)

	w := s.do(t, http.MethodGet, "/api/routes/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="routes.json"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("{\n  \"routes\": [\n")))

	docs, err := trail.ParseEnvelope(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Relaxed", docs[0]["avg_daily_distance"].([]any)[0].(map[string]any)["avg_daily_distance_1"])
}

func TestRoutes_AccommodationsGeoJSON(t *testing.T) {
	t.Parallel()
	s := newServer(t, false)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/routes", routeBody).Code)

	w := s.do(t, http.MethodGet, "/api/routes/camino-del-norte/accommodations.geojson", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/geo+json", w.Header().Get("Content-Type"))
	fc := decode(t, w)
	assert.Equal(t, "FeatureCollection", fc["type"])
	assert.Len(t, fc["features"], 1)
}

func TestDrafts_EditAndSubmit(t *testing.T) {
	t.Parallel()
	s := newServer(t, false)

	w := s.do(t, http.MethodPost, "/api/drafts", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["draft_id"].(string)
	base := "/api/drafts/" + id

	edits := `[
		{"op":"set_route","value":{"route_id":"camino-sanabres","route_name":"Camino Sanabrés"}},
		{"op":"add_stage","value":{"stage_name":"Ourense to Cea"}},
		{"op":"add_stage","value":{"stage_name":"Cea to Laxe"}},
		{"op":"move_stage","from":1,"to":0},
		{"op":"add_facility","stage":0,"value":{"index":1,"name":"Bar"}},
		{"op":"toggle_service","stage":0,"index":0,"value":"Shop"}
	]`
	w = s.do(t, http.MethodPost, base+"/edits", edits)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	route := decode(t, w)["route"].(map[string]any)
	stages := route["stages"].([]any)
	assert.Equal(t, "Cea to Laxe", stages[0].(map[string]any)["stage_name"])
	assert.Equal(t, 1.0, stages[0].(map[string]any)["stage_number"])
	assert.Equal(t, 2.0, stages[1].(map[string]any)["stage_number"])

	w = s.do(t, http.MethodPost, base+"/edits", `{"op":"toggle_service","stage":0,"index":0,"value":"Spa"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, base+"/paste", `{"route_id": oops`)
	require.Equal(t, http.StatusOK, w.Code)
	pasted := decode(t, w)
	assert.Equal(t, false, pasted["applied"])
	assert.Equal(t, "camino-sanabres", pasted["route"].(map[string]any)["route_id"])

	w = s.do(t, http.MethodPost, base+"/paste", `{"route_id":"other","route_name":"Other","stages":[]} not json`)
	require.Equal(t, http.StatusOK, w.Code)
	pasted = decode(t, w)
	assert.Equal(t, false, pasted["applied"])
	assert.Equal(t, "camino-sanabres", pasted["route"].(map[string]any)["route_id"])

	w = s.do(t, http.MethodPost, base+"/submit", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	stored, err := s.repo.FindByID(context.Background(), "camino-sanabres")
	require.NoError(t, err)
	assert.Equal(t, []string{"Shop"}, stored.Route.Stages[0].Facilities[0].Services)

	w = s.do(t, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDrafts_SubmitInvalid(t *testing.T) {
	t.Parallel()
	s := newServer(t, false)

	w := s.do(t, http.MethodPost, "/api/drafts", `{"route_name":"No id"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)
	assert.Equal(t, "No id", created["route"].(map[string]any)["route_name"])

	w = s.do(t, http.MethodPost, "/api/drafts/"+created["draft_id"].(string)+"/submit", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDrafts_FromStoredRoute(t *testing.T) {
	t.Parallel()
	s := newServer(t, false)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/routes", routeBody).Code)

	w := s.do(t, http.MethodPost, "/api/drafts?from=camino-del-norte", "")
	require.Equal(t, http.StatusCreated, w.Code)
	d := decode(t, w)
	assert.Equal(t, "Camino del Norte", d["route"].(map[string]any)["route_name"])

	w = s.do(t, http.MethodDelete, "/api/drafts/"+d["draft_id"].(string), "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodPost, "/api/drafts?from=missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuth_GuardsWrites(t *testing.T) {
	t.Parallel()
	s := newServer(t, true)

	w := s.do(t, http.MethodPost, "/api/routes", routeBody)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/routes", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/signup", `{"name":"Ana","email":"ana@example.org","password":"long-enough"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/auth/signup", `{"name":"Ana","email":"ana@example.org","password":"long-enough"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ana@example.org","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ana@example.org","password":"long-enough"}`)
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["token"].(string)

	w = s.do(t, http.MethodPost, "/api/routes", routeBody, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newServer(t, false)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "").Code)
}
