// Package cache memoizes derived analytics results. Entries are JSON-encoded
// into a fixed-size in-memory cache; callers embed the store generation in
// their keys so any write invalidates every memoized result at once.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coocood/freecache"
)

// DefaultSizeBytes is a sensible cache size for analytics payloads.
const DefaultSizeBytes = 8 * 1024 * 1024

// Cache wraps freecache with JSON encoding. Failures to cache are logged and
// swallowed: a cache miss is never an error.
type Cache struct {
	inner      *freecache.Cache
	ttlSeconds int
	logger     *slog.Logger
}

// New creates a cache of the given size. A zero ttl means entries live until
// evicted or invalidated by a generation change.
func New(sizeBytes int, ttl time.Duration, logger *slog.Logger) *Cache {
	if sizeBytes <= 0 {
		sizeBytes = DefaultSizeBytes
	}
	return &Cache{
		inner:      freecache.NewCache(sizeBytes),
		ttlSeconds: int(ttl.Seconds()),
		logger:     logger,
	}
}

// Get loads the entry under key into v, reporting whether it was present.
func (c *Cache) Get(ctx context.Context, key string, v any) bool {
	data, err := c.inner.Get([]byte(key))
	if err != nil {
		return false
	}
	if err = json.Unmarshal(data, v); err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "dropping undecodable cache entry",
			slog.String("key", key), slog.String("error", err.Error()))
		c.inner.Del([]byte(key))
		return false
	}
	return true
}

// Set stores v under key.
func (c *Cache) Set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "cannot encode cache entry",
			slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	if err = c.inner.Set([]byte(key), data, c.ttlSeconds); err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "cannot store cache entry",
			slog.String("key", key), slog.String("error", err.Error()))
	}
}
