package oracle

import (
	"sync"
	"time"
)

// nameCache keeps resolved display names in memory so a name is looked up
// at most once per TTL window.
type nameCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]nameEntry
}

type nameEntry struct {
	name     string
	cachedAt time.Time
}

func newNameCache(ttl time.Duration) *nameCache {
	return &nameCache{
		ttl:     ttl,
		entries: make(map[string]nameEntry),
	}
}

func (c *nameCache) get(symbol string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[symbol]
	if !ok {
		return "", false
	}
	if time.Since(e.cachedAt) > c.ttl {
		return "", false
	}
	return e.name, true
}

func (c *nameCache) set(symbol, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[symbol] = nameEntry{name: name, cachedAt: time.Now()}
}
