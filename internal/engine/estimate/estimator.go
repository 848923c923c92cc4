// internal/engine/estimate/estimator.go

// Package estimate provides the deterministic cost/time/risk model and the
// client for the external cost prediction microservice. The deterministic
// path is total: every project gets a number, the prediction path merely
// refines it.
package estimate

import (
	"math"
	"strings"

	"construction-engine/internal/common/config"
	"construction-engine/internal/common/metrics"
	"construction-engine/internal/models"
)

// Estimator computes cost and duration from calibrated rate tables. Tables
// come from configuration so a market recalibration needs no code change.
type Estimator struct {
	baseRates             map[string]config.Rate
	complexityMultipliers map[string]config.Multiplier
	locationMultipliers   map[string]float64
}

func NewEstimator(cfg config.EngineConfig) *Estimator {
	return &Estimator{
		baseRates:             cfg.BaseRates,
		complexityMultipliers: cfg.ComplexityMultipliers,
		locationMultipliers:   cfg.LocationMultipliers,
	}
}

// Estimate derives cost, duration and risk for the project. Unrecognized
// project types fall back to Residential rates, unrecognized complexity to
// medium, unrecognized locations to a 1.0 multiplier.
func (e *Estimator) Estimate(project *models.Project) models.EstimateResult {
	rate := e.rateFor(project.Type)
	complexity := e.multiplierFor(project.Complexity)
	location := e.locationFor(project.Location)

	estCost := rate.CostPerSqm * project.SizeSqm * complexity.Cost * location
	estTime := round1(project.SizeSqm / 1000 * rate.MonthsPer1000Sqm * complexity.Time)

	metrics.EstimatesComputed.Inc()

	return models.EstimateResult{
		EstCost:       estCost,
		EstTimeMonths: estTime,
		Risk:          riskScore(estCost, estTime, project.Budget, project.TimelineMonths),
	}
}

// riskScore averages the relative cost and schedule overruns, capped at 1.
// Zero budget or timeline contributes no risk; validation upstream rejects
// those projects anyway.
func riskScore(estCost, estTime, budget, timelineMonths float64) float64 {
	var costRisk, timeRisk float64
	if budget > 0 {
		costRisk = math.Max(0, estCost-budget) / budget
	}
	if timelineMonths > 0 {
		timeRisk = math.Max(0, estTime-timelineMonths) / timelineMonths
	}
	return math.Min(1, (costRisk+timeRisk)/2)
}

func (e *Estimator) rateFor(projectType models.ProjectType) config.Rate {
	if rate, ok := lookupFold(e.baseRates, string(projectType)); ok {
		return rate
	}
	if rate, ok := lookupFold(e.baseRates, string(models.TypeResidential)); ok {
		return rate
	}
	return config.Rate{}
}

func (e *Estimator) multiplierFor(complexity models.Complexity) config.Multiplier {
	if m, ok := lookupFold(e.complexityMultipliers, string(complexity)); ok {
		return m
	}
	if m, ok := lookupFold(e.complexityMultipliers, string(models.ComplexityMedium)); ok {
		return m
	}
	return config.Multiplier{Cost: 1, Time: 1}
}

func (e *Estimator) locationFor(location string) float64 {
	if m, ok := lookupFold(e.locationMultipliers, location); ok {
		return m
	}
	return 1.0
}

// lookupFold does a case-insensitive map lookup. The tables are small, a
// linear scan on miss is fine.
func lookupFold[V any](m map[string]V, key string) (V, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	var zero V
	return zero, false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
