package catalog

import (
	"context"
	"time"

	"github.com/AdwaithAnandSR/MediaCloudSync/util/kv"
)

// Cached wraps a Client and memoizes existence answers per video id.
// A registered song is immediately marked as existing so a repeat
// submission skips without another round trip. Errors are never cached.
type Cached struct {
	inner Client
	cache kv.KV[string, bool]
	ttl   time.Duration
}

var _ Client = (*Cached)(nil)

func NewCached(inner Client, ttl time.Duration) *Cached {
	return &Cached{
		inner: inner,
		cache: kv.NewMemoryKV[string, bool](),
		ttl:   ttl,
	}
}

func (c *Cached) Exists(ctx context.Context, id, title string) (bool, error) {
	if exists, err := c.cache.Get(ctx, id); err == nil {
		return exists, nil
	}

	exists, err := c.inner.Exists(ctx, id, title)
	if err != nil {
		return false, err
	}
	c.cache.Set(ctx, id, exists, c.ttl)
	return exists, nil
}

func (c *Cached) Register(ctx context.Context, song Song) (bool, error) {
	accepted, err := c.inner.Register(ctx, song)
	if err == nil && accepted {
		c.cache.Set(ctx, song.ID, true, c.ttl)
	}
	return accepted, err
}
