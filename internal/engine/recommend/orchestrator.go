// internal/engine/recommend/orchestrator.go

// Package recommend orchestrates provider recommendations: cached remote
// result first, live remote ranking second, local heuristic ranking last.
package recommend

import (
	"context"
	"errors"
	"time"

	commonerrors "construction-engine/internal/common/errors"
	"construction-engine/internal/common/logger"
	"construction-engine/internal/common/metrics"
	"construction-engine/internal/engine/cache"
	"construction-engine/internal/models"
)

// RemoteRanker is the remote ranking path. The orchestrator treats every
// error from it as a cue to fall back, never as a caller-visible failure.
type RemoteRanker interface {
	RankRemote(ctx context.Context, project *models.Project, providers []models.Provider) ([]models.ScoredProvider, error)
}

// LocalRanker is the deterministic fallback path.
type LocalRanker interface {
	Rank(project *models.Project, providers []models.Provider) []models.ScoredProvider
}

// Recommendation carries the ranked providers plus where they came from.
// Degraded is set when the remote path failed and the heuristic answered.
type Recommendation struct {
	Providers []models.ScoredProvider `json:"providers"`
	Source    string                  `json:"source"`
	Degraded  bool                    `json:"degraded,omitempty"`
}

type Orchestrator struct {
	remote RemoteRanker
	local  LocalRanker
	cache  cache.Cache
	logger logger.Logger
}

// New wires the three paths together. remote may be nil when the deployment
// runs without a completion service; every request then takes the heuristic
// path and is reported as degraded.
func New(remote RemoteRanker, local LocalRanker, c cache.Cache, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		remote: remote,
		local:  local,
		cache:  c,
		logger: log.WithFields(map[string]interface{}{"component": "recommend"}),
	}
}

// Recommend returns the top count providers for the project. The full remote
// ranking is cached under the project fingerprint; heuristic results are not
// cached, so a recovered remote service serves the next identical request.
func (o *Orchestrator) Recommend(ctx context.Context, project *models.Project, providers []models.Provider, count int) (*Recommendation, error) {
	if err := project.Validate(); err != nil {
		return nil, commonerrors.NewInvalidProjectError(err)
	}
	if count <= 0 {
		count = len(providers)
	}

	key := cache.Fingerprint(project)

	if cached, ok := o.lookupCache(ctx, key); ok {
		metrics.RankRequests.WithLabelValues(models.SourceCache).Inc()
		return &Recommendation{
			Providers: truncate(cached, count),
			Source:    models.SourceCache,
		}, nil
	}

	if o.remote != nil {
		ranked, err := o.rankRemote(ctx, project, providers)
		if err == nil {
			o.storeCache(ctx, key, ranked)
			metrics.RankRequests.WithLabelValues(models.SourceRemote).Inc()
			return &Recommendation{
				Providers: truncate(ranked, count),
				Source:    models.SourceRemote,
			}, nil
		}

		reason := "error"
		var se *commonerrors.StandardError
		if errors.As(err, &se) {
			reason = string(se.Code)
		}
		metrics.RankFallbacks.WithLabelValues(reason).Inc()
		o.logger.Warn("remote ranking failed, using heuristic fallback", map[string]interface{}{
			"reason": reason,
			"error":  err.Error(),
		})
	}

	ranked := o.local.Rank(project, providers)
	metrics.RankRequests.WithLabelValues(models.SourceHeuristic).Inc()
	return &Recommendation{
		Providers: truncate(ranked, count),
		Source:    models.SourceHeuristic,
		Degraded:  o.remote != nil,
	}, nil
}

func (o *Orchestrator) rankRemote(ctx context.Context, project *models.Project, providers []models.Provider) ([]models.ScoredProvider, error) {
	start := time.Now()
	ranked, err := o.remote.RankRemote(ctx, project, providers)
	metrics.RemoteLatency.Observe(time.Since(start).Seconds())
	return ranked, err
}

func (o *Orchestrator) lookupCache(ctx context.Context, key string) ([]models.ScoredProvider, bool) {
	if o.cache == nil {
		return nil, false
	}
	cached, ok, err := o.cache.Get(ctx, key)
	if err != nil {
		// A faulty cache backend degrades to a miss.
		o.logger.Warn("cache lookup failed", map[string]interface{}{"error": err.Error()})
		metrics.CacheMisses.Inc()
		return nil, false
	}
	if !ok {
		metrics.CacheMisses.Inc()
		return nil, false
	}
	metrics.CacheHits.Inc()
	return cached, true
}

func (o *Orchestrator) storeCache(ctx context.Context, key string, ranked []models.ScoredProvider) {
	if o.cache == nil {
		return
	}
	if err := o.cache.Set(ctx, key, ranked); err != nil {
		o.logger.Warn("cache store failed", map[string]interface{}{"error": err.Error()})
	}
}

func truncate(ranked []models.ScoredProvider, count int) []models.ScoredProvider {
	if count > 0 && len(ranked) > count {
		return ranked[:count]
	}
	return ranked
}
