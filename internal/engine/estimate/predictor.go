// internal/engine/estimate/predictor.go
package estimate

import (
	"context"
	"strings"

	commonerrors "construction-engine/internal/common/errors"
	"construction-engine/internal/common/httpclient"
	"construction-engine/internal/common/logger"
	"construction-engine/internal/common/metrics"
	"construction-engine/internal/models"
)

// Market rates fed to the prediction service as the rate_sar_m2 hint. These
// are finish-grade rates, calibrated separately from the estimator's
// all-in construction rates.
var predictorBaseRates = map[models.ProjectType]float64{
	models.TypeResidential: 750,
	models.TypeCommercial:  900,
	models.TypeIndustrial:  600,
	models.TypeMixedUse:    850,
}

var predictorLocationFactors = map[string]float64{
	"riyadh": 1.0,
	"jeddah": 0.95,
	"dammam": 0.9,
	"mecca":  1.05,
	"medina": 1.0,
}

var predictorComplexityFactors = map[models.Complexity]float64{
	models.ComplexityLow:    0.9,
	models.ComplexityMedium: 1.0,
	models.ComplexityHigh:   1.15,
}

// premiumTechnologies get a rate uplift when any appears in the project's
// technology needs.
var premiumTechnologies = map[string]bool{
	"bim":                  true,
	"prefabrication":       true,
	"3d panel system (m2)": true,
	"modular lgs":          true,
}

const premiumTechUplift = 1.1

type predictRequest struct {
	ProjectType    string  `json:"project_type"`
	SizeSqm        float64 `json:"size_sqm"`
	Location       string  `json:"location"`
	TimelineMonths float64 `json:"timeline_months"`
	RateSarM2      float64 `json:"rate_sar_m2"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Predictor calls the cost prediction microservice and degrades to the
// deterministic estimator when the service misbehaves.
type Predictor struct {
	client    *httpclient.Client
	baseURL   string
	estimator *Estimator
	logger    logger.Logger
}

func NewPredictor(client *httpclient.Client, baseURL string, estimator *Estimator, log logger.Logger) *Predictor {
	return &Predictor{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		estimator: estimator,
		logger:    log.WithFields(map[string]interface{}{"component": "predictor"}),
	}
}

// Healthy reports whether the prediction service answers its health probe.
// Used for readiness reporting only; PredictWithFallback never consults it.
func (p *Predictor) Healthy(ctx context.Context) bool {
	var resp healthResponse
	if err := p.client.GetJSON(ctx, p.baseURL+"/health", &resp); err != nil {
		return false
	}
	return resp.Status == "healthy" || resp.Status == "ok"
}

// PredictWithFallback asks the service for a cost prediction. On any failure
// the deterministic estimate is packaged as the prediction (method
// "fallback") with the original error text preserved for diagnostics. The
// returned error mirrors that state and is always recoverable.
func (p *Predictor) PredictWithFallback(ctx context.Context, project *models.Project) (*models.CostPrediction, error) {
	req := predictRequest{
		ProjectType:    string(project.Type),
		SizeSqm:        project.SizeSqm,
		Location:       project.Location,
		TimelineMonths: project.TimelineMonths,
		RateSarM2:      p.RateSarM2(project),
	}

	var prediction models.CostPrediction
	err := p.client.PostJSON(ctx, p.baseURL+"/predict", req, &prediction)
	if err == nil && prediction.Success {
		prediction.Method = "ai"
		metrics.PredictorRequests.WithLabelValues("ok").Inc()
		return &prediction, nil
	}

	var stdErr *commonerrors.StandardError
	if err != nil {
		stdErr = commonerrors.NewPredictorUnavailableError(err)
	} else {
		stdErr = commonerrors.NewPredictionFailedError(errUnsuccessful{})
	}
	metrics.PredictorRequests.WithLabelValues("fallback").Inc()
	p.logger.Warn("cost prediction failed, using deterministic estimate", map[string]interface{}{
		"error": stdErr.Error(),
	})

	estimate := p.estimator.Estimate(project)
	fallback := &models.CostPrediction{
		Success:       false,
		PredictedCost: estimate.EstCost,
		ConfidenceInterval: models.ConfidenceInterval{
			Lower: estimate.EstCost * 0.85,
			Upper: estimate.EstCost * 1.15,
		},
		CostPerSqm:       safeDiv(estimate.EstCost, project.SizeSqm),
		Method:           "fallback",
		FallbackEstimate: &estimate,
		Error:            stdErr.Error(),
	}
	return fallback, stdErr
}

// RateSarM2 derives the market rate hint from project type, location,
// complexity and premium technology needs.
func (p *Predictor) RateSarM2(project *models.Project) float64 {
	rate, ok := predictorBaseRates[project.Type]
	if !ok {
		rate = predictorBaseRates[models.TypeResidential]
	}

	if factor, ok := predictorLocationFactors[strings.ToLower(project.Location)]; ok {
		rate *= factor
	}
	if factor, ok := predictorComplexityFactors[project.Complexity]; ok {
		rate *= factor
	}

	for _, tech := range project.TechNeeds {
		if premiumTechnologies[strings.ToLower(tech)] {
			rate *= premiumTechUplift
			break
		}
	}
	return rate
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

type errUnsuccessful struct{}

func (errUnsuccessful) Error() string { return "prediction service reported success=false" }
