// internal/engine/engine.go

// Package engine is the public facade over the ranking, estimation and
// report synthesis paths. Every entry point validates its input, then
// completes with either a full result or a degraded-but-valid one; remote
// failures never escape.
package engine

import (
	"context"

	"construction-engine/internal/common/config"
	commonerrors "construction-engine/internal/common/errors"
	"construction-engine/internal/common/logger"
	"construction-engine/internal/engine/cache"
	"construction-engine/internal/engine/estimate"
	"construction-engine/internal/engine/rank"
	"construction-engine/internal/engine/recommend"
	"construction-engine/internal/engine/remote"
	"construction-engine/internal/engine/report"
	"construction-engine/internal/models"
)

type Engine struct {
	estimator    *estimate.Estimator
	ranker       *rank.Ranker
	orchestrator *recommend.Orchestrator
	synthesizer  *report.Synthesizer
	predictor    *estimate.Predictor
}

// New assembles the engine. completer may be nil (no remote ranking or
// narrative), rankCache may be nil (no caching), predictor may be nil (no
// AI cost prediction).
func New(cfg config.EngineConfig, completer remote.TextCompleter, rankCache cache.Cache, providerCap int, predictor *estimate.Predictor, log logger.Logger) *Engine {
	estimator := estimate.NewEstimator(cfg)
	ranker := rank.New(
		rank.RequestWeights(cfg.RequestWeights),
		rank.ComparisonWeights(cfg.ComparisonWeights),
	)

	var remoteRanker recommend.RemoteRanker
	if completer != nil {
		remoteRanker = remote.NewAdapter(completer, providerCap, log)
	}

	return &Engine{
		estimator:    estimator,
		ranker:       ranker,
		orchestrator: recommend.New(remoteRanker, ranker, rankCache, log),
		synthesizer:  report.NewSynthesizer(completer, estimator, ranker, log),
		predictor:    predictor,
	}
}

// Estimate returns the deterministic cost/time/risk estimate.
func (e *Engine) Estimate(project *models.Project) (models.EstimateResult, error) {
	if err := project.Validate(); err != nil {
		return models.EstimateResult{}, commonerrors.NewInvalidProjectError(err)
	}
	return e.estimator.Estimate(project), nil
}

// RankProviders returns the top count providers for the project, remote when
// possible, heuristic otherwise.
func (e *Engine) RankProviders(ctx context.Context, project *models.Project, providers []models.Provider, count int) (*recommend.Recommendation, error) {
	for i := range providers {
		if err := providers[i].Validate(); err != nil {
			return nil, commonerrors.NewInvalidProviderError(err)
		}
	}
	return e.orchestrator.Recommend(ctx, project, providers, count)
}

// SynthesizeReport builds the consolidated project report.
func (e *Engine) SynthesizeReport(ctx context.Context, project *models.Project, providers []models.Provider, topN int) (*models.Report, error) {
	if err := project.Validate(); err != nil {
		return nil, commonerrors.NewInvalidProjectError(err)
	}
	return e.synthesizer.Synthesize(ctx, project, providers, topN)
}

// ScoreProvider computes the single-provider comparison score.
func (e *Engine) ScoreProvider(provider *models.Provider, project *models.Project) (float64, error) {
	if err := provider.Validate(); err != nil {
		return 0, commonerrors.NewInvalidProviderError(err)
	}
	return e.ranker.ScoreComparison(provider, project), nil
}

// PredictCost calls the cost prediction service, degrading to the
// deterministic estimate. With no predictor configured, the deterministic
// estimate is packaged directly.
func (e *Engine) PredictCost(ctx context.Context, project *models.Project) (*models.CostPrediction, error) {
	if err := project.Validate(); err != nil {
		return nil, commonerrors.NewInvalidProjectError(err)
	}
	if e.predictor == nil {
		est := e.estimator.Estimate(project)
		return &models.CostPrediction{
			Success:       false,
			PredictedCost: est.EstCost,
			ConfidenceInterval: models.ConfidenceInterval{
				Lower: est.EstCost * 0.85,
				Upper: est.EstCost * 1.15,
			},
			CostPerSqm:       est.EstCost / project.SizeSqm,
			Method:           "fallback",
			FallbackEstimate: &est,
		}, nil
	}

	prediction, err := e.predictor.PredictWithFallback(ctx, project)
	if err != nil && !commonerrors.IsRecoverable(err) {
		return nil, err
	}
	return prediction, nil
}
