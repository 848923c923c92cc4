// internal/models/estimate.go
package models

// EstimateResult is the deterministic cost/time/risk estimate for a project.
// All fields are derived and recomputed on every call.
type EstimateResult struct {
	EstCost       float64 `json:"estCost"`
	EstTimeMonths float64 `json:"estTimeMonths"`
	Risk          float64 `json:"risk"`
}

// ConfidenceInterval bounds a predicted cost.
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// CostPrediction is the response of the cost prediction microservice, or a
// locally computed fallback when the service is unavailable.
type CostPrediction struct {
	Success            bool               `json:"success"`
	PredictedCost      float64            `json:"predicted_cost"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
	CostPerSqm         float64            `json:"cost_per_sqm"`
	// Method is "ai" when the microservice answered, "fallback" when the
	// deterministic estimator produced the number.
	Method           string          `json:"method"`
	FallbackEstimate *EstimateResult `json:"fallback_estimate,omitempty"`
	Error            string          `json:"error,omitempty"`
}
