package api

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"umddining-backend/services/dining/store"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// menuCache holds menu reads until the engine reports a change. Purge
// bumps the generation so a read that raced with it is not cached.
type menuCache struct {
	cache *expirable.LRU[string, []store.MenuItem]
	store Store

	lock       sync.Mutex
	generation uint64
}

func newMenuCache(s Store, size int, ttl time.Duration) *menuCache {
	return &menuCache{
		cache: expirable.NewLRU[string, []store.MenuItem](size, nil, ttl),
		store: s,
	}
}

func menuCacheKey(filter store.MenuFilter) string {
	return strings.Join([]string{
		filter.DiningHallID,
		filter.Date,
		strings.ToLower(filter.MealPeriod),
	}, "|")
}

func (c *menuCache) Get(ctx context.Context, filter store.MenuFilter) ([]store.MenuItem, error) {
	key := menuCacheKey(filter)

	c.lock.Lock()
	generation := c.generation
	cached, hit := c.cache.Get(key)
	c.lock.Unlock()
	if hit {
		return cached, nil
	}

	items, err := c.store.Menu(ctx, filter)
	if err != nil {
		return nil, err
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	if c.generation != generation {
		slog.DebugContext(ctx, "menu changed during read, not caching it", "key", key)
		return items, nil
	}
	evicted := c.cache.Add(key, items)
	if evicted {
		slog.DebugContext(ctx, "menu cache evicted an entry", "key", key)
	}
	return items, nil
}

func (c *menuCache) Purge() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.generation++
	c.cache.Purge()
}
