package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prospectly/leadtrack/internal/domain"
	"github.com/prospectly/leadtrack/internal/repository"
)

// RedisStatsCache implements StatsCache backed by Redis.
type RedisStatsCache struct {
	client redis.UniversalClient
}

var _ repository.StatsCache = (*RedisStatsCache)(nil)

// NewRedisStatsCache constructs a Redis-backed stats cache.
func NewRedisStatsCache(client redis.UniversalClient) *RedisStatsCache {
	return &RedisStatsCache{client: client}
}

func statsKey(userID int64) string {
	return fmt.Sprintf("stats:user:%d", userID)
}

// GetStats loads and decodes cached dashboard stats; a miss returns nil, nil.
func (c *RedisStatsCache) GetStats(ctx context.Context, userID int64) (*domain.DashboardStats, error) {
	bytes, err := c.client.Get(ctx, statsKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load stats: %w", err)
	}
	var stats domain.DashboardStats
	if err := json.Unmarshal(bytes, &stats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return &stats, nil
}

// SaveStats stores the encoded stats payload with TTL.
func (c *RedisStatsCache) SaveStats(ctx context.Context, userID int64, stats domain.DashboardStats, ttl time.Duration) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := c.client.Set(ctx, statsKey(userID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("persist stats: %w", err)
	}
	return nil
}

// DeleteStats drops the cached entry, typically after a write to the
// user's leads or follow-ups.
func (c *RedisStatsCache) DeleteStats(ctx context.Context, userID int64) error {
	if err := c.client.Del(ctx, statsKey(userID)).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("delete stats: %w", err)
	}
	return nil
}

// NoopStatsCache satisfies StatsCache when no Redis is configured.
type NoopStatsCache struct{}

var _ repository.StatsCache = (*NoopStatsCache)(nil)

func NewNoopStatsCache() *NoopStatsCache { return &NoopStatsCache{} }

func (*NoopStatsCache) GetStats(context.Context, int64) (*domain.DashboardStats, error) {
	return nil, nil
}

func (*NoopStatsCache) SaveStats(context.Context, int64, domain.DashboardStats, time.Duration) error {
	return nil
}

func (*NoopStatsCache) DeleteStats(context.Context, int64) error { return nil }
