// Package cache stores remote provider responses in Redis as JSON.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"street-segment-api/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = time.Hour

// RedisCache is a JSON cache over a Redis client. A nil *RedisCache, or one
// without a client, is a valid cache that always misses.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Open connects to addr. An empty addr returns nil, which disables caching.
func Open(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}

// NewRedisCache creates a cache whose keys are prefixed with prefix + ":".
// A non-positive ttl selects one hour.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

// Enabled reports whether the cache is backed by Redis.
func (c *RedisCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get decodes the value stored under key into dst. It reports false on a
// miss; decode failures are treated as misses.
func (c *RedisCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	s, err := c.client.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return false, nil
	}
	if err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		return false, fmt.Errorf("cache: failed to get %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(s), dst); err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return false, nil
	}
	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return true, nil
}

// Set stores v under key with the cache TTL.
func (c *RedisCache) Set(ctx context.Context, key string, v any) error {
	if !c.Enabled() {
		return nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: failed to encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, c.key(key), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: failed to set %s: %w", key, err)
	}
	return nil
}

// Ping checks the connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}
