package cache

import (
	"context"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/redis/go-redis/v9"
)

const pageKeyPrefix = "page:"

// PagePurger drops cached page renders from both cache tiers. Purge is
// best-effort: a stale page is not a correctness issue, so callers log the
// returned error and move on.
type PagePurger struct {
	mc  *memcache.Client
	rdb *redis.Client
}

func NewPagePurger(mc *memcache.Client, rdb *redis.Client) *PagePurger {
	return &PagePurger{mc: mc, rdb: rdb}
}

func (p *PagePurger) Purge(ctx context.Context, path string) error {
	key := pageKeyPrefix + path

	var firstErr error
	if err := p.mc.Delete(key); err != nil && err != memcache.ErrCacheMiss {
		firstErr = err
	}
	if err := p.rdb.Del(ctx, key).Err(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
