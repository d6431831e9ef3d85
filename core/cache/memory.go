package cache

import (
	"context"
	"time"

	"github.com/maypok86/otter/v2"
)

// MemoryCache keeps values in process. Used when no redis is configured and
// in tests.
type MemoryCache struct {
	cache *otter.Cache[string, []byte]
}

func NewMemoryCache(maxSize int, ttl time.Duration) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 10_000
	}
	opts := &otter.Options[string, []byte]{
		MaximumSize: maxSize,
	}
	if ttl > 0 {
		opts.ExpiryCalculator = otter.ExpiryWriting[string, []byte](ttl)
	}
	return &MemoryCache{cache: otter.Must(opts)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.cache.GetIfPresent(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	c.cache.Set(key, stored)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.cache.Invalidate(key)
	return nil
}

func (c *MemoryCache) Close() error {
	c.cache.InvalidateAll()
	return nil
}
