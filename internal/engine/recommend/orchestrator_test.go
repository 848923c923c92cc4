// internal/engine/recommend/orchestrator_test.go
package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "construction-engine/internal/common/errors"
	"construction-engine/internal/common/logger"
	"construction-engine/internal/engine/cache"
	"construction-engine/internal/engine/rank"
	"construction-engine/internal/models"
)

type stubRemote struct {
	result []models.ScoredProvider
	err    error
	calls  int
}

func (s *stubRemote) RankRemote(_ context.Context, _ *models.Project, _ []models.Provider) ([]models.ScoredProvider, error) {
	s.calls++
	return s.result, s.err
}

type countingLocal struct {
	inner *rank.Ranker
	calls int
}

func (c *countingLocal) Rank(project *models.Project, providers []models.Provider) []models.ScoredProvider {
	c.calls++
	return c.inner.Rank(project, providers)
}

func recommendProject() *models.Project {
	return &models.Project{
		Name:           "Dammam Warehouse",
		Type:           models.TypeIndustrial,
		SizeSqm:        3000,
		Location:       "Dammam",
		Complexity:     models.ComplexityLow,
		Budget:         8000000,
		TimelineMonths: 10,
	}
}

func recommendProviders() []models.Provider {
	return []models.Provider{
		{ID: "p1", Name: "Alpha", Location: "Dammam, Saudi Arabia", CostPerSqm: 800, PastProjects: 30},
		{ID: "p2", Name: "Beta", Location: "Riyadh, Saudi Arabia", CostPerSqm: 1200, PastProjects: 10},
		{ID: "p3", Name: "Gamma", Location: "Cairo", CostPerSqm: 2500, PastProjects: 3},
	}
}

func remoteRanked() []models.ScoredProvider {
	return []models.ScoredProvider{
		{Provider: models.Provider{ID: "p2"}, FinalScore: 0.9, Rationale: "r2"},
		{Provider: models.Provider{ID: "p1"}, FinalScore: 0.8, Rationale: "r1"},
		{Provider: models.Provider{ID: "p3"}, FinalScore: 0.7, Rationale: "r3"},
	}
}

func newTestOrchestrator(t *testing.T, remote RemoteRanker) (*Orchestrator, *countingLocal, cache.Cache) {
	t.Helper()
	c, err := cache.NewMemoryCache(16)
	require.NoError(t, err)
	local := &countingLocal{inner: rank.NewDefault()}
	return New(remote, local, c, logger.NewNoOpLogger()), local, c
}

func TestRecommend_RemoteSuccess(t *testing.T) {
	remote := &stubRemote{result: remoteRanked()}
	o, local, _ := newTestOrchestrator(t, remote)

	rec, err := o.Recommend(context.Background(), recommendProject(), recommendProviders(), 2)
	require.NoError(t, err)

	assert.Equal(t, models.SourceRemote, rec.Source)
	assert.False(t, rec.Degraded)
	require.Len(t, rec.Providers, 2)
	assert.Equal(t, "p2", rec.Providers[0].ID)
	assert.Equal(t, 0, local.calls)
}

func TestRecommend_CacheHitSkipsBothRankers(t *testing.T) {
	remote := &stubRemote{result: remoteRanked()}
	o, local, _ := newTestOrchestrator(t, remote)
	ctx := context.Background()

	_, err := o.Recommend(ctx, recommendProject(), recommendProviders(), 3)
	require.NoError(t, err)
	require.Equal(t, 1, remote.calls)

	rec, err := o.Recommend(ctx, recommendProject(), recommendProviders(), 3)
	require.NoError(t, err)

	assert.Equal(t, models.SourceCache, rec.Source)
	assert.Equal(t, 1, remote.calls)
	assert.Equal(t, 0, local.calls)
	require.Len(t, rec.Providers, 3)
	assert.Equal(t, "p2", rec.Providers[0].ID)
}

func TestRecommend_CacheStoresFullListServesSmallerCounts(t *testing.T) {
	remote := &stubRemote{result: remoteRanked()}
	o, _, _ := newTestOrchestrator(t, remote)
	ctx := context.Background()

	// First request truncates to 1, but the cached entry is the full list.
	first, err := o.Recommend(ctx, recommendProject(), recommendProviders(), 1)
	require.NoError(t, err)
	require.Len(t, first.Providers, 1)

	second, err := o.Recommend(ctx, recommendProject(), recommendProviders(), 3)
	require.NoError(t, err)
	assert.Equal(t, models.SourceCache, second.Source)
	assert.Len(t, second.Providers, 3)
}

func TestRecommend_FallsBackOnRemoteFailure(t *testing.T) {
	remote := &stubRemote{err: commonerrors.NewEmptyRemoteResultError()}
	o, local, c := newTestOrchestrator(t, remote)
	ctx := context.Background()

	rec, err := o.Recommend(ctx, recommendProject(), recommendProviders(), 3)
	require.NoError(t, err)

	assert.Equal(t, models.SourceHeuristic, rec.Source)
	assert.True(t, rec.Degraded)
	assert.Equal(t, 1, local.calls)
	require.Len(t, rec.Providers, 3)
	// Heuristic ordering: the local Dammam provider should lead.
	assert.Equal(t, "p1", rec.Providers[0].ID)

	// Fallback results must not populate the cache.
	_, ok, cacheErr := c.Get(ctx, cache.Fingerprint(recommendProject()))
	require.NoError(t, cacheErr)
	assert.False(t, ok)

	// Next identical request retries the remote path.
	_, err = o.Recommend(ctx, recommendProject(), recommendProviders(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, remote.calls)
}

func TestRecommend_NoRemoteConfigured(t *testing.T) {
	o, local, _ := newTestOrchestrator(t, nil)

	rec, err := o.Recommend(context.Background(), recommendProject(), recommendProviders(), 0)
	require.NoError(t, err)

	assert.Equal(t, models.SourceHeuristic, rec.Source)
	assert.False(t, rec.Degraded)
	assert.Equal(t, 1, local.calls)
	assert.Len(t, rec.Providers, 3)
}

func TestRecommend_RejectsInvalidProject(t *testing.T) {
	o, _, _ := newTestOrchestrator(t, &stubRemote{result: remoteRanked()})

	bad := recommendProject()
	bad.SizeSqm = -10

	_, err := o.Recommend(context.Background(), bad, recommendProviders(), 3)
	require.Error(t, err)

	var se *commonerrors.StandardError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, commonerrors.ErrCodeInvalidProject, se.Code)
	assert.False(t, se.Recoverable)
}
