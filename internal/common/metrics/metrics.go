// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RankRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_rank_requests_total",
			Help: "Total ranking requests by result source (remote, heuristic, cache)",
		},
		[]string{"source"},
	)

	RankFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_rank_fallbacks_total",
			Help: "Total remote ranking failures absorbed by the heuristic fallback",
		},
		[]string{"reason"},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_rank_cache_hits_total",
			Help: "Ranking cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_rank_cache_misses_total",
			Help: "Ranking cache misses",
		},
	)

	RemoteLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "engine_remote_rank_duration_seconds",
			Help: "Latency of remote ranking calls, including failures",
		},
	)

	EstimatesComputed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_estimates_total",
			Help: "Deterministic estimates computed",
		},
	)

	PredictorRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_predictor_requests_total",
			Help: "Cost predictor calls by outcome (ok, fallback)",
		},
		[]string{"status"},
	)

	ReportsSynthesized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_reports_total",
			Help: "Reports synthesized by narrative source (remote, template)",
		},
		[]string{"source"},
	)
)
