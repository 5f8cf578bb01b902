// Package cache stores JSON read models in redis. Failures are logged and
// treated as misses so callers fall back to the database.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type Cache interface {
	// Get decodes the cached value into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

type RedisCache struct {
	redis redis.UniversalClient
}

func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{redis: client}
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) bool {
	val, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		zap.S().Warnf("Redis error on GET %s: %v. Falling back to DB.", key, err)
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		zap.S().Warnf("Discarding unreadable cache entry %s: %v", key, err)
		return false
	}
	return true
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		zap.S().Warnf("Failed to encode cache entry %s: %v", key, err)
		return
	}
	if err := c.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		zap.S().Warnf("Failed to set cache for key %s: %v", key, err)
	}
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) {
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		zap.S().Warnf("Failed to invalidate cache keys %v: %v", keys, err)
	}
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) bool           { return false }
func (Noop) Set(context.Context, string, interface{}, time.Duration) {}
func (Noop) Delete(context.Context, ...string)                       {}
