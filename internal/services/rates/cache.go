package rates

import (
	"context"
	"maps"
	"sync"
)

// Entry is one cached rate: an integer percentage and an optional description.
type Entry struct {
	Rate        int    `json:"gst_rate"`
	Description string `json:"description,omitempty"`
}

// CacheDelta holds entries a resolution wants added to the cache.
type CacheDelta map[string]Entry

// DefaultFallback is the static table consulted when neither the cache nor
// the remote tier knows a code. It also seeds the cache at load time.
func DefaultFallback() map[string]Entry {
	return map[string]Entry{
		"94035000": {Rate: 18, Description: "Wooden furniture"},
		"94036000": {Rate: 12, Description: "Metal furniture"},
	}
}

// Cache is the code to rate mapping carried across runs. It only grows.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewCache(seed map[string]Entry) *Cache {
	entries := make(map[string]Entry, len(seed))
	maps.Copy(entries, seed)
	return &Cache{entries: entries}
}

func (c *Cache) Get(code string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[code]
	return e, ok
}

// Apply merges delta into the cache. Existing codes are overwritten, none removed.
func (c *Cache) Apply(delta CacheDelta) {
	if len(delta) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	maps.Copy(c.entries, delta)
}

// Snapshot returns a copy of every entry.
func (c *Cache) Snapshot() map[string]Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.entries)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CacheStore persists the cache between runs.
type CacheStore interface {
	Load(ctx context.Context) (map[string]Entry, error)
	Save(ctx context.Context, entries map[string]Entry) error
}

// LoadCache merges stored entries over seed; stored entries win. When the
// store cannot be read the seeded cache is still returned with the error.
func LoadCache(ctx context.Context, store CacheStore, seed map[string]Entry) (*Cache, error) {
	cache := NewCache(seed)
	if store == nil {
		return cache, nil
	}
	stored, err := store.Load(ctx)
	if err != nil {
		return cache, err
	}
	cache.Apply(stored)
	return cache, nil
}
