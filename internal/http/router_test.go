// README: End-to-end router tests with a stubbed completion service and maps API.
package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripwise/internal/ai"
	httptransport "tripwise/internal/http"
	"tripwise/internal/maps"
	"tripwise/internal/service"
	"tripwise/internal/session"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s stubCompleter) Complete(context.Context, ai.Request) (string, error) {
	return s.reply, s.err
}

const fencedParis = "```json\n" + `{
  "day_wise_plan": [
    {"day": "Day 1", "date": "2024-06-01", "destination": "Louvre"},
    {"day": "Day 2", "date": "2024-06-02", "destination": "Montmartre"},
    {"day": "Day 3", "date": "2024-06-03", "destination": "Versailles"}
  ],
  "additional_suggestions": {}
}` + "\n```"

func newRouter(t *testing.T, c ai.Completer, places *maps.PlacesService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	planner := service.NewTripPlanner(c, session.NewMemoryStore(), nil, nil, service.PlannerConfig{}, nil)
	deps := httptransport.RouterDeps{Planner: planner}
	if places != nil {
		deps.Places = places
	}
	return httptransport.NewRouter(deps)
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateItineraryParisEndToEnd(t *testing.T) {
	r := newRouter(t, stubCompleter{reply: fencedParis}, nil)

	for _, path := range []string{"/api/ai/generate-itinerary", "/api/ai/generate_itinerary"} {
		w := postJSON(r, path, map[string]any{
			"destination":    "Paris",
			"trip_length":    3,
			"date_range":     []string{"2024-06-01", "2024-06-03"},
			"budget":         "$1000",
			"numberofpeople": 2,
		})
		require.Equal(t, http.StatusOK, w.Code, path)

		var resp struct {
			Message   string `json:"message"`
			Itinerary struct {
				DayWisePlan []map[string]any `json:"day_wise_plan"`
			} `json:"itinerary"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Itinerary generated successfully", resp.Message)
		assert.Len(t, resp.Itinerary.DayWisePlan, 3)
	}
}

func TestGenerateItineraryMalformedIsEnvelope(t *testing.T) {
	r := newRouter(t, stubCompleter{reply: "hello world"}, nil)

	w := postJSON(r, "/api/ai/generate-itinerary", map[string]any{"destination": "Paris"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Failed to generate itinerary", body["error"])
	assert.NotEmpty(t, body["message"])
}

func TestPlacesZeroResultsEndToEnd(t *testing.T) {
	var searches, others atomic.Int32
	mapsAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/maps/api/place/textsearch/json" {
			searches.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"results":[],"status":"ZERO_RESULTS","html_attributions":[]}`))
			return
		}
		others.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer mapsAPI.Close()

	opts := maps.Options{APIKey: "AIza-test", BaseURL: mapsAPI.URL}
	places, err := maps.NewPlacesService(opts, maps.PlacesConfig{Timeout: 5 * time.Second, QPS: 100}, maps.NewHTTPPhotoResolver(opts), nil)
	require.NoError(t, err)
	r := newRouter(t, stubCompleter{}, places)

	w := postJSON(r, "/api/places/details", map[string]any{"name": "Nowhere Inn", "type": "accommodation", "city": "Paris", "country": "France"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Place not found"}`, w.Body.String())
	assert.EqualValues(t, 1, searches.Load())
	assert.EqualValues(t, 0, others.Load())
}

func TestRootAndHealth(t *testing.T) {
	r := newRouter(t, stubCompleter{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.JSONEq(t, `{"message":"Travel Planner AI Service is running"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "OK", w.Body.String())
}

func TestServerAppliesCORS(t *testing.T) {
	r := newRouter(t, stubCompleter{}, nil)
	srv := httptransport.NewServer(":0", r, []string{"https://app.example.com"}, time.Minute, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/ai/legal-docs", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
