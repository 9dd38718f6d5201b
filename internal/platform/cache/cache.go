// Package cache provides a Redis-backed utility cache. The cache is an
// optional dependency: when no Redis URL is configured the application runs
// without it, and no request path requires it to be present.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss signals that a key is not present in the cache. Callers treat
// a miss as "go compute it", never as a failure.
var ErrCacheMiss = errors.New("cache miss")

// connectTimeout bounds the startup ping so a wedged Redis cannot hang boot.
const connectTimeout = 5 * time.Second

// Cache wraps a Redis client with JSON serialization for arbitrary values.
type Cache struct {
	client *redis.Client
	logger *slog.Logger
}

// New connects to Redis using the given URL (redis://...) and verifies the
// connection with a ping before returning. If logger is nil, the default
// logger is used.
func New(redisURL string, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{
		client: client,
		logger: logger.With(slog.String("component", "cache")),
	}, nil
}

// Get retrieves the value stored under key and unmarshals it into dest.
// Returns ErrCacheMiss when the key is absent. Corrupt entries are deleted
// and reported as a miss so callers fall through to the source of truth.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		c.logger.Warn("deleting corrupt cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		c.client.Del(ctx, key)
		return ErrCacheMiss
	}

	return nil
}

// Set stores value under key with the given TTL. A zero TTL stores the key
// without expiration.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Delete removes the given keys. Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// ClearPattern removes every key matching a glob pattern, scanning in
// batches to avoid blocking the server on large keyspaces.
func (c *Cache) ClearPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan failed for pattern %s: %w", pattern, err)
	}
	return nil
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the Redis connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}
