package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/providers"
	"github.com/redis/go-redis/v9"
)

// RedisCache implements providers.RateCache on a shared Redis instance, letting
// several replicas serve one warm cache. Keys are namespaced with a prefix so
// Clear never touches other tenants of the instance.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// Ensure implementation matches interface
var _ providers.RateCache = (*RedisCache)(nil)

// NewRedisCache connects to the Redis instance described by url (redis://...)
// and namespaces every key with prefix.
func NewRedisCache(url, prefix string, logger *slog.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return &RedisCache{client: redis.NewClient(opt), prefix: prefix, logger: logger}, nil
}

func (r *RedisCache) key(key string) string {
	return r.prefix + key
}

// Get returns the stored bytes for key, or (nil, nil) on a miss.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", slog.String("key", key))
		return nil, nil // cache miss
	}
	if err != nil {
		r.logger.Error("Redis cache get error", slog.String("key", key), slog.String("error", err.Error()))
		return nil, err
	}
	return val, nil
}

// Set stores value under key. A zero ttl stores without expiration.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", slog.String("key", key), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Remove deletes the entry for key if present.
func (r *RedisCache) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.logger.Error("Redis cache delete error", slog.String("key", key), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Clear drops every key under this cache's prefix using SCAN to avoid blocking
// the instance the way KEYS would.
func (r *RedisCache) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			r.logger.Error("Redis cache clear error", slog.String("key", iter.Val()), slog.String("error", err.Error()))
			return err
		}
	}
	if err := iter.Err(); err != nil {
		r.logger.Error("Redis cache scan error", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Close releases the underlying client connections.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
