package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const adminDashboardCacheKey = "dashboard:admin"

func studentDashboardCacheKey(studentID string) string {
	return "dashboard:student:" + studentID
}

// DashboardCache keeps rendered dashboard payloads in Redis for a bounded TTL.
// Mutations invalidate the affected keys so the next load reflects the write.
// A nil client disables caching entirely.
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewDashboardCache wraps a redis client for dashboard caching.
func NewDashboardCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *DashboardCache {
	return &DashboardCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "dashboard_cache").Logger(),
	}
}

// Get loads a cached payload into out, reporting whether it was found.
func (c *DashboardCache) Get(ctx context.Context, key string, out interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}

	cached, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("failed to read dashboard cache")
		}
		return false
	}

	if err := json.Unmarshal([]byte(cached), out); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to decode cached dashboard")
		return false
	}

	return true
}

// Set stores a payload under the configured TTL. Failures are logged, never
// surfaced.
func (c *DashboardCache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.client == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to store dashboard cache")
	}
}

// Invalidate removes the given keys.
func (c *DashboardCache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Strs("keys", keys).Msg("failed to invalidate dashboard cache")
	}
}
