// internal/engine/cache/cache.go

// Package cache stores full remote ranking results keyed by a project
// fingerprint. Only complete, successful remote results go in; heuristic
// fallbacks are never cached so a recovered service gets asked again.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"

	"construction-engine/internal/models"
)

// Cache is the ranking-result cache the orchestrator depends on. Get misses
// return (nil, false, nil); errors are reserved for backend faults.
type Cache interface {
	Get(ctx context.Context, key string) ([]models.ScoredProvider, bool, error)
	Set(ctx context.Context, key string, providers []models.ScoredProvider) error
}

// fingerprintFields pins the exact set and order of project attributes that
// participate in the cache key. Two projects differing only in fields outside
// this set share an entry.
type fingerprintFields struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Size       float64 `json:"size"`
	Location   string  `json:"location"`
	Complexity string  `json:"complexity"`
	Budget     float64 `json:"budget"`
	Timeline   float64 `json:"timeline"`
}

// Fingerprint derives the deterministic cache key for a project.
func Fingerprint(project *models.Project) string {
	b, _ := json.Marshal(fingerprintFields{
		Name:       project.Name,
		Type:       string(project.Type),
		Size:       project.SizeSqm,
		Location:   project.Location,
		Complexity: string(project.Complexity),
		Budget:     project.Budget,
		Timeline:   project.TimelineMonths,
	})
	return string(b)
}

// MemoryCache is the default in-process backend. Eviction is LRU; single
// worker deployments never need more.
type MemoryCache struct {
	entries *lru.Cache[string, []models.ScoredProvider]
}

func NewMemoryCache(capacity int) (*MemoryCache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}
	entries, err := lru.New[string, []models.ScoredProvider](capacity)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{entries: entries}, nil
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]models.ScoredProvider, bool, error) {
	providers, ok := m.entries.Get(key)
	return providers, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, providers []models.ScoredProvider) error {
	m.entries.Add(key, providers)
	return nil
}

// RedisCache shares ranking results across worker replicas. Entries carry no
// TTL; the fingerprint changes whenever the project inputs do.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, prefix: "rank:"}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]models.ScoredProvider, bool, error) {
	payload, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var providers []models.ScoredProvider
	if err := json.Unmarshal(payload, &providers); err != nil {
		return nil, false, err
	}
	return providers, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, providers []models.ScoredProvider) error {
	payload, err := json.Marshal(providers)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.prefix+key, payload, 0).Err()
}
