package diddoc

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "diddoc:"

// CachedResolver is a read-through Redis cache in front of a Resolver.
// Only successful resolutions are cached; a DID that was not resolvable is
// retried on every attempt so late publication is picked up.
type CachedResolver struct {
	inner  Resolver
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps a resolver with a Redis cache.
func NewCached(inner Resolver, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedResolver {
	return &CachedResolver{
		inner:  inner,
		redis:  client,
		ttl:    ttl,
		logger: logger,
	}
}

// Resolve returns the cached document when present, otherwise resolves and caches.
func (c *CachedResolver) Resolve(ctx context.Context, did string) (*Document, error) {
	key := cacheKeyPrefix + did

	cached, err := c.redis.Get(ctx, key).Bytes()
	if err == nil {
		var doc Document
		if err := json.Unmarshal(cached, &doc); err == nil {
			return &doc, nil
		}
		// Corrupt entry, fall through to a fresh resolution.
		c.redis.Del(ctx, key)
	} else if err != redis.Nil && c.logger != nil {
		c.logger.WarnContext(ctx, "did document cache read failed", "error", err)
	}

	doc, err := c.inner.Resolve(ctx, did)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(doc); err == nil {
		if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil && c.logger != nil {
			c.logger.WarnContext(ctx, "did document cache write failed", "error", err)
		}
	}
	return doc, nil
}

// Verify interface is satisfied.
var _ Resolver = (*CachedResolver)(nil)
