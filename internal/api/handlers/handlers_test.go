package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"evroute/internal/model"
	"evroute/internal/osrm"
	"evroute/internal/service/trip"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRouter struct {
	err error
}

func (r *stubRouter) RouteSync(_ context.Context, wps []model.Waypoint, opts osrm.RouteOptions, _ osrm.HintCache) ([]*model.Route, osrm.HintCache, error) {
	if r.err != nil {
		return nil, osrm.HintCache{}, r.err
	}
	route := &model.Route{
		Name:           "A9",
		Coordinates:    []model.LatLng{*wps[0].LatLng, *wps[len(wps)-1].LatLng},
		Instructions:   []model.Instruction{},
		Summary:        model.Summary{TotalDistance: 584000, TotalTime: 20000},
		Waypoints:      model.CopyWaypoints(wps),
		InputWaypoints: model.CopyWaypoints(wps),
		Properties:     model.RouteProperties{IsSimplified: true},
	}
	return []*model.Route{route}, osrm.HintCache{}, nil
}

func newTestEngine(router trip.Router) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	trips := trip.NewTripService(router, nil)

	api := r.Group("/api")
	SetupMainHandlers(r.Group(""), map[string]string{"service": "evroute"})
	SetupRouteHandlers(api, trips)
	SetupTripHandlers(api, trips)
	SetupEVHandlers(api)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const planBody = `{
	"session_id": "s-1",
	"waypoints": [
		{"latLng": {"lat": 52.517, "lng": 13.3888}, "name": "Berlin"},
		{"latLng": {"lat": 48.1351, "lng": 11.582}, "name": "Munich"}
	],
	"ev": {"departure_battery_pct": 80, "ev_model": "tesla_models2"},
	"options": {"alternatives": true}
}`

func planTrip(t *testing.T, r http.Handler) string {
	t.Helper()
	w := do(r, http.MethodPost, "/api/route", planBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		SessionID string         `json:"session_id"`
		TripID    string         `json:"trip_id"`
		Routes    []*model.Route `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "s-1", resp.SessionID)
	require.Len(t, resp.Routes, 1)
	assert.Equal(t, "A9", resp.Routes[0].Name)
	return resp.TripID
}

func TestMainHandlers(t *testing.T) {
	r := newTestEngine(&stubRouter{})

	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())

	w = do(r, http.MethodGet, "/", "")
	assert.JSONEq(t, `{"service":"evroute"}`, w.Body.String())
}

func TestPlanRoute(t *testing.T) {
	r := newTestEngine(&stubRouter{})
	id := planTrip(t, r)

	w := do(r, http.MethodGet, "/api/trip/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)

	var got model.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "80", got.EVParams["departure_battery_pct"])
	assert.Equal(t, "tesla_models2", got.EVParams["ev_model"])
}

func TestPlanRouteValidation(t *testing.T) {
	r := newTestEngine(&stubRouter{})

	w := do(r, http.MethodPost, "/api/route", `{"waypoints": [`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/route", `{"waypoints": [{"latLng": {"lat": 1, "lng": 2}}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/route", `{"waypoints": [{"latLng": {"lat": 1, "lng": 2}}, {"name": "unplaced"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := strings.Replace(planBody, "tesla_models2", "hovercraft", 1)
	w = do(r, http.MethodPost, "/api/route", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanRouteErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"backend status", &osrm.Error{Kind: osrm.KindBackendStatus, Code: "NoRoute"}, http.StatusUnprocessableEntity},
		{"timeout", &osrm.Error{Kind: osrm.KindTimeout, Message: "OSRM request timed out."}, http.StatusGatewayTimeout},
		{"transport", &osrm.Error{Kind: osrm.KindTransport, HTTPStatus: 500}, http.StatusBadGateway},
		{"parse", &osrm.Error{Kind: osrm.KindParse}, http.StatusBadGateway},
		{"interpretation", &osrm.Error{Kind: osrm.KindInterpretation}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestEngine(&stubRouter{err: tt.err})
			w := do(r, http.MethodPost, "/api/route", planBody)
			assert.Equal(t, tt.want, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			assert.NotEmpty(t, body["kind"])
		})
	}
}

func TestTripNotFound(t *testing.T) {
	r := newTestEngine(&stubRouter{})
	for _, path := range []string{"/api/trip/nope", "/api/trip/nope/geojson", "/api/trip/nope/detail?bbox=0,0,1,1"} {
		assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, path, "").Code, path)
	}
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/trip/nope/score?score=1", "").Code)
}

func TestTripGeoJSON(t *testing.T) {
	r := newTestEngine(&stubRouter{})
	id := planTrip(t, r)

	w := do(r, http.MethodGet, "/api/trip/"+id+"/geojson", "")
	require.Equal(t, http.StatusOK, w.Code)

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.NotEmpty(t, fc.Features)
	assert.Equal(t, "LineString", fc.Features[0].Geometry.Type)
}

func TestTripDetail(t *testing.T) {
	r := newTestEngine(&stubRouter{})
	id := planTrip(t, r)

	w := do(r, http.MethodGet, "/api/trip/"+id+"/detail?bbox=5.8,47.2,15.1,55.1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"trip_id":"`+id+`","requires_more_detail":false,"routes":[false]}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/trip/"+id+"/detail?bbox=8.9,47.2,13.9,50.6", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"trip_id":"`+id+`","requires_more_detail":true,"routes":[true]}`, w.Body.String())

	for _, bbox := range []string{"", "1,2,3", "a,b,c,d", "10,10,0,0"} {
		w = do(r, http.MethodGet, "/api/trip/"+id+"/detail?bbox="+bbox, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, bbox)
	}
}

func TestScoreTrip(t *testing.T) {
	r := newTestEngine(&stubRouter{})
	id := planTrip(t, r)

	w := do(r, http.MethodPost, "/api/trip/"+id+"/score?score=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"trip_id":"`+id+`","score":1}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/trip/"+id+"/score?score=maybe", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEVModels(t *testing.T) {
	r := newTestEngine(&stubRouter{})
	w := do(r, http.MethodGet, "/api/ev/models", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Models       []map[string]string       `json:"models"`
		DefaultModel string                    `json:"default_model"`
		Ranges       map[string]map[string]int `json:"ranges"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Models, 3)
	assert.Equal(t, "tesla_model3", body.DefaultModel)
	assert.Equal(t, map[string]int{"min": 50, "max": 100, "default": 80}, body.Ranges["preferred_stop_charge_battery_pct"])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(osrm.ErrWaypointsNotReady))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
