// internal/engine/estimate/predictor_test.go
package estimate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "construction-engine/internal/common/errors"
	"construction-engine/internal/common/httpclient"
	"construction-engine/internal/common/logger"
	"construction-engine/internal/models"
)

func newTestPredictor(t *testing.T, handler http.HandlerFunc) *Predictor {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewPredictor(httpclient.NewClient(2*time.Second), srv.URL, defaultEstimator(), logger.NewNoOpLogger())
}

func predictorProject() *models.Project {
	return &models.Project{
		Name:           "Mecca Hotel",
		Type:           models.TypeCommercial,
		SizeSqm:        8000,
		Location:       "Mecca",
		Complexity:     models.ComplexityHigh,
		Budget:         60000000,
		TimelineMonths: 36,
		TechNeeds:      []string{"BIM"},
	}
}

func TestPredictWithFallback_ServiceAnswer(t *testing.T) {
	var gotReq predictRequest
	p := newTestPredictor(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/predict", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(models.CostPrediction{
			Success:       true,
			PredictedCost: 7200000,
			ConfidenceInterval: models.ConfidenceInterval{
				Lower: 6500000,
				Upper: 7900000,
			},
			CostPerSqm: 900,
		})
	})

	prediction, err := p.PredictWithFallback(context.Background(), predictorProject())
	require.NoError(t, err)

	assert.Equal(t, "ai", prediction.Method)
	assert.Equal(t, 7200000.0, prediction.PredictedCost)
	assert.Nil(t, prediction.FallbackEstimate)

	assert.Equal(t, "Commercial", gotReq.ProjectType)
	assert.Equal(t, 8000.0, gotReq.SizeSqm)
	// 900 * 1.05 (Mecca) * 1.15 (high) * 1.1 (BIM)
	assert.InDelta(t, 900*1.05*1.15*1.1, gotReq.RateSarM2, 1e-9)
}

func TestPredictWithFallback_ServiceDown(t *testing.T) {
	p := newTestPredictor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	prediction, err := p.PredictWithFallback(context.Background(), predictorProject())
	require.Error(t, err)
	assert.True(t, commonerrors.IsRecoverable(err))

	var std *commonerrors.StandardError
	require.ErrorAs(t, err, &std)
	assert.Equal(t, commonerrors.ErrCodePredictorUnavailable, std.Code)

	require.NotNil(t, prediction)
	assert.Equal(t, "fallback", prediction.Method)
	assert.False(t, prediction.Success)
	require.NotNil(t, prediction.FallbackEstimate)
	assert.Equal(t, prediction.FallbackEstimate.EstCost, prediction.PredictedCost)
	assert.Less(t, prediction.ConfidenceInterval.Lower, prediction.PredictedCost)
	assert.Greater(t, prediction.ConfidenceInterval.Upper, prediction.PredictedCost)
	assert.NotEmpty(t, prediction.Error)
}

func TestPredictWithFallback_SuccessFalse(t *testing.T) {
	p := newTestPredictor(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.CostPrediction{Success: false})
	})

	prediction, err := p.PredictWithFallback(context.Background(), predictorProject())
	require.Error(t, err)

	var std *commonerrors.StandardError
	require.ErrorAs(t, err, &std)
	assert.Equal(t, commonerrors.ErrCodePredictionFailed, std.Code)

	assert.Equal(t, "fallback", prediction.Method)
	require.NotNil(t, prediction.FallbackEstimate)
}

func TestRateSarM2(t *testing.T) {
	p := NewPredictor(httpclient.NewClient(time.Second), "http://unused", defaultEstimator(), logger.NewNoOpLogger())

	cases := []struct {
		name    string
		project models.Project
		want    float64
	}{
		{
			name:    "residential riyadh medium",
			project: models.Project{Type: models.TypeResidential, Location: "Riyadh", Complexity: models.ComplexityMedium},
			want:    750,
		},
		{
			name:    "industrial dammam low",
			project: models.Project{Type: models.TypeIndustrial, Location: "Dammam", Complexity: models.ComplexityLow},
			want:    600 * 0.9 * 0.9,
		},
		{
			name:    "premium tech uplift applied once",
			project: models.Project{Type: models.TypeResidential, Location: "Riyadh", Complexity: models.ComplexityMedium, TechNeeds: []string{"BIM", "Modular LGS"}},
			want:    750 * 1.1,
		},
		{
			name:    "unknown type uses residential",
			project: models.Project{Type: models.ProjectType("Bridge"), Location: "Nowhere", Complexity: models.ComplexityMedium},
			want:    750,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, p.RateSarM2(&tc.project), 1e-9)
		})
	}
}

func TestHealthy(t *testing.T) {
	up := newTestPredictor(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		json.NewEncoder(w).Encode(healthResponse{Status: "healthy"})
	})
	assert.True(t, up.Healthy(context.Background()))

	down := newTestPredictor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	assert.False(t, down.Healthy(context.Background()))
}
