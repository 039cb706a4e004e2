// Package cache holds short-lived copies of computed sales reports.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultReportTTL bounds how stale a cached report may be.
const DefaultReportTTL = time.Minute

// ReportCache stores encoded reports. A miss is (false, nil).
type ReportCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	// Invalidate makes every previously stored report unreachable.
	Invalidate(ctx context.Context) error
	Key(ctx context.Context, kind string, parts ...string) (string, error)
}

// RedisReportCache is a ReportCache on Redis. Keys embed a generation counter
// that Invalidate bumps, so old entries simply age out.
type RedisReportCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisReportCache parses a redis:// URL and returns a cache with the given ttl.
func NewRedisReportCache(url, prefix string, ttl time.Duration) (*RedisReportCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return NewRedisReportCacheWithClient(redis.NewClient(opts), prefix, ttl), nil
}

// NewRedisReportCacheWithClient wraps an existing client.
func NewRedisReportCacheWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisReportCache {
	if prefix == "" {
		prefix = "stitchwork"
	}
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	return &RedisReportCache{client: client, prefix: prefix, ttl: ttl}
}

// Ping checks connectivity.
func (c *RedisReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client.
func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

func (c *RedisReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("corrupt cached report %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisReportCache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

func (c *RedisReportCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.generationKey()).Err()
}

func (c *RedisReportCache) Key(ctx context.Context, kind string, parts ...string) (string, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return BuildKey(c.prefix, gen, kind, parts...), nil
}

func (c *RedisReportCache) generationKey() string {
	return c.prefix + ":report:gen"
}

// BuildKey derives a fixed-length cache key from the report kind and its filters.
func BuildKey(prefix string, generation int64, kind string, parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return fmt.Sprintf("%s:report:%d:%s:%s", prefix, generation, kind, hex.EncodeToString(sum[:12]))
}

// NopReportCache never stores anything.
type NopReportCache struct{}

func (NopReportCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NopReportCache) Set(context.Context, string, any) error         { return nil }
func (NopReportCache) Invalidate(context.Context) error               { return nil }
func (NopReportCache) Key(_ context.Context, kind string, parts ...string) (string, error) {
	return BuildKey("nop", 0, kind, parts...), nil
}
