// Package cache is a read-through byte cache for computed responses.
// Failures are logged and treated as misses so the database stays the source of truth.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL = time.Hour
	opTimeout  = 2 * time.Second
	scanRounds = 10
	scanCount  = 1000
)

type Cache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration)
	InvalidatePrefix(ctx context.Context, prefix string)
}

// New returns a Redis cache for redisURL, or a no-op cache when it is empty.
func New(redisURL string) (Cache, error) {
	if redisURL == "" {
		slog.Info("cache disabled, REDIS_URL not set")
		return Noop{}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	opts.DialTimeout = 3 * time.Second
	opts.ReadTimeout = opTimeout
	opts.WriteTimeout = opTimeout

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// Keep the client; every call fails open until Redis is reachable.
		slog.Warn("redis ping failed", "error", err, "addr", opts.Addr)
	} else {
		slog.Info("cache connected", "addr", opts.Addr)
	}

	return NewRedis(client), nil
}

type Noop struct{}

func (Noop) GetBytes(context.Context, string) ([]byte, bool) { return nil, false }
func (Noop) SetJSON(context.Context, string, any, time.Duration) {}
func (Noop) InvalidatePrefix(context.Context, string) {}

type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (c *Redis) GetBytes(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("cache get failed", "error", err, "key", key)
		}
		return nil, false
	}
	return b, true
}

func (c *Redis) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	b, err := json.Marshal(v)
	if err != nil {
		slog.Warn("cache marshal failed", "error", err, "key", key)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := c.client.Set(ctx, key, b, ttl).Err(); err != nil {
		slog.Warn("cache set failed", "error", err, "key", key)
	}
}

// InvalidatePrefix deletes keys starting with prefix using SCAN, bounded to a few rounds.
func (c *Redis) InvalidatePrefix(ctx context.Context, prefix string) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var cursor uint64
	for i := 0; i < scanRounds; i++ {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", scanCount).Result()
		if err != nil {
			slog.Warn("cache invalidate failed", "error", err, "prefix", prefix)
			return
		}
		if len(keys) > 0 {
			pipe := c.client.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			if _, err := pipe.Exec(ctx); err != nil {
				slog.Warn("cache delete failed", "error", err, "prefix", prefix)
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

func (c *Redis) Close() error {
	return c.client.Close()
}
