// cmd/engine-server/server_test.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"construction-engine/internal/common/config"
	"construction-engine/internal/common/logger"
	"construction-engine/internal/engine"
	"construction-engine/internal/engine/cache"
	"construction-engine/internal/models"
)

type stubStore struct {
	providers []models.Provider
	err       error
}

func (s *stubStore) ListProviders(_ context.Context) ([]models.Provider, error) {
	return s.providers, s.err
}

type stubSearch struct {
	providers []models.Provider
	gotQuery  string
	gotSize   int
}

func (s *stubSearch) SearchProviders(_ context.Context, query string, size int) ([]models.Provider, error) {
	s.gotQuery = query
	s.gotSize = size
	return s.providers, nil
}

func newTestServer(t *testing.T, store *stubStore, search *stubSearch) *server {
	t.Helper()
	memCache, err := cache.NewMemoryCache(16)
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	eng := engine.New(config.DefaultEngineConfig(), nil, memCache, 0, nil, log)
	return newServer(eng, store, search, log)
}

const validProjectJSON = `{
	"name": "Riyadh Offices",
	"type": "Commercial",
	"sizeSqm": 2500,
	"location": "Riyadh",
	"complexity": "medium",
	"budget": 18000000,
	"timelineMonths": 14
}`

func doRequest(t *testing.T, srv *server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	return rec
}

func TestEstimateEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, &stubSearch{})

	rec := doRequest(t, srv, http.MethodPost, "/api/estimate", `{"project": `+validProjectJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.EstimateResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.InDelta(t, 15000000, result.EstCost, 0.01)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestEstimateEndpoint_SchemaRejection(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, &stubSearch{})

	rec := doRequest(t, srv, http.MethodPost, "/api/estimate",
		`{"project": {"type": "Commercial", "sizeSqm": 2500, "location": "Riyadh", "timelineMonths": 14}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "schema validation")
}

func TestEstimateEndpoint_InvalidJSON(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, &stubSearch{})

	rec := doRequest(t, srv, http.MethodPost, "/api/estimate", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRankEndpoint_UsesCatalogWhenProvidersOmitted(t *testing.T) {
	store := &stubStore{providers: []models.Provider{
		{ID: "p1", Name: "Alpha", Location: "Riyadh, Saudi Arabia", CostPerSqm: 6000},
		{ID: "p2", Name: "Beta", Location: "Jeddah, Saudi Arabia", CostPerSqm: 7000},
	}}
	srv := newTestServer(t, store, &stubSearch{})

	rec := doRequest(t, srv, http.MethodPost, "/api/rank", `{"project": `+validProjectJSON+`, "count": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Providers []models.ScoredProvider `json:"providers"`
		Source    string                  `json:"source"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, models.SourceHeuristic, result.Source)
	require.Len(t, result.Providers, 1)
}

func TestRankEndpoint_EmptyCatalog(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, &stubSearch{})

	rec := doRequest(t, srv, http.MethodPost, "/api/rank", `{"project": `+validProjectJSON+`}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestScoreEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, &stubSearch{})

	body := `{"project": ` + validProjectJSON + `, "provider": {"id": "p1", "name": "Alpha", "costPerSqm": 6000}}`
	rec := doRequest(t, srv, http.MethodPost, "/api/score", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var result scoreResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "p1", result.ProviderID)
	assert.GreaterOrEqual(t, result.Score, 0.0)
}

func TestPredictEndpoint_FallbackWithoutPredictor(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, &stubSearch{})

	rec := doRequest(t, srv, http.MethodPost, "/api/predict", `{"project": `+validProjectJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.CostPrediction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "fallback", result.Method)
	assert.Greater(t, result.PredictedCost, 0.0)
}

func TestSearchEndpoint_RequiresQuery(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, &stubSearch{})

	rec := doRequest(t, srv, http.MethodGet, "/api/providers/search", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchEndpoint(t *testing.T) {
	search := &stubSearch{providers: []models.Provider{{ID: "p1", Name: "Alpha"}}}
	srv := newTestServer(t, &stubStore{}, search)

	rec := doRequest(t, srv, http.MethodGet, "/api/providers/search?q=modular&size=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "modular", search.gotQuery)
	assert.Equal(t, 5, search.gotSize)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, &stubSearch{})

	rec := doRequest(t, srv, http.MethodGet, "/api/estimate", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
