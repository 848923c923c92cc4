// internal/engine/cache/cache_test.go
package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"construction-engine/internal/models"
)

func fingerprintProject() *models.Project {
	return &models.Project{
		Name:           "NEOM Logistics Hub",
		Type:           models.TypeIndustrial,
		SizeSqm:        12000,
		Location:       "Tabuk",
		Complexity:     models.ComplexityHigh,
		Budget:         45000000,
		TimelineMonths: 30,
		TechNeeds:      []string{"Modular LGS"},
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint(fingerprintProject())
	b := Fingerprint(fingerprintProject())
	assert.Equal(t, a, b)
}

func TestFingerprint_SensitiveToRankingInputs(t *testing.T) {
	base := Fingerprint(fingerprintProject())

	changed := fingerprintProject()
	changed.Budget = 46000000
	assert.NotEqual(t, base, Fingerprint(changed))

	// Tech needs are deliberately outside the fingerprint.
	sameKey := fingerprintProject()
	sameKey.TechNeeds = []string{"BIM", "Precast"}
	assert.Equal(t, base, Fingerprint(sameKey))
}

func cachedResult() []models.ScoredProvider {
	return []models.ScoredProvider{
		{Provider: models.Provider{ID: "p1", Name: "Alpha"}, FinalScore: 0.9, Rationale: "Top fit"},
		{Provider: models.Provider{ID: "p2", Name: "Beta"}, FinalScore: 0.8},
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c, err := NewMemoryCache(4)
	require.NoError(t, err)
	ctx := context.Background()
	key := Fingerprint(fingerprintProject())

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, cachedResult()))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, 0.9, got[0].FinalScore)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewMemoryCache(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", cachedResult()))
	require.NoError(t, c.Set(ctx, "b", cachedResult()))
	require.NoError(t, c.Set(ctx, "c", cachedResult()))

	_, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "c")
	assert.True(t, ok)
}

func TestMemoryCache_RejectsNonPositiveCapacity(t *testing.T) {
	_, err := NewMemoryCache(0)
	assert.Error(t, err)
}

func TestRedisCache_RoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	c := NewRedisCache(client)
	ctx := context.Background()
	key := Fingerprint(fingerprintProject())

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, cachedResult()))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "p2", got[1].ID)
	assert.Equal(t, "Top fit", got[0].Rationale)
}

func TestRedisCache_BackendFault(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	c := NewRedisCache(client)
	srv.Close()

	_, _, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
}
