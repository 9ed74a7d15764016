package studyset

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/andrewpaige1/nodebook-web/models"
)

type cacheItem struct {
	set     *models.FlashcardSet
	fetched time.Time
}

// Cache holds recently fetched study sets. Cached sets are shared between
// requests and must not be modified. A zero TTL disables storage but
// concurrent fetches are still coalesced.
type Cache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		items: make(map[string]cacheItem),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *Cache) expired(item cacheItem) bool {
	return c.now().Sub(item.fetched) > c.ttl
}

// Get returns the cached set without fetching. An expired entry is dropped.
func (c *Cache) Get(publicID string) (*models.FlashcardSet, bool) {
	c.mu.RLock()
	item, ok := c.items[publicID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.expired(item) {
		c.mu.Lock()
		if current, ok := c.items[publicID]; ok && c.expired(current) {
			delete(c.items, publicID)
		}
		c.mu.Unlock()
		return nil, false
	}
	return item.set, true
}

// Prune drops every expired entry and returns how many were removed.
func (c *Cache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id, item := range c.items {
		if c.expired(item) {
			delete(c.items, id)
			removed++
		}
	}
	return removed
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Fetch returns the cached set or loads it, sharing one load between
// concurrent callers asking for the same ID. The shared load ignores the
// cancellation of whichever caller started it.
func (c *Cache) Fetch(ctx context.Context, publicID string, load func(context.Context) (*models.FlashcardSet, error)) (*models.FlashcardSet, error) {
	if set, ok := c.Get(publicID); ok {
		return set, nil
	}

	v, err, _ := c.group.Do(publicID, func() (interface{}, error) {
		set, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if c.ttl > 0 {
			c.mu.Lock()
			c.items[publicID] = cacheItem{set: set, fetched: c.now()}
			c.mu.Unlock()
		}
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.FlashcardSet), nil
}

func (c *Cache) Evict(publicID string) {
	c.mu.Lock()
	delete(c.items, publicID)
	c.mu.Unlock()
	c.group.Forget(publicID)
}
