package analysis

import (
	"sync"
	"time"
)

// ResultCache memoizes analysis results by text fingerprint. Expiry is
// lazy: entries are checked and dropped on read, never swept in the
// background. The map is unbounded; for multi-instance deployments
// this would move to a shared cache, which is out of scope here.
type ResultCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	result     *Result
	computedAt time.Time
}

const DefaultCacheTTL = time.Hour

func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ResultCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns nil on miss or expiry. An expired entry is removed so a
// later Put replaces it cleanly.
func (c *ResultCache) Get(fingerprint string) *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[fingerprint]
	if !ok {
		return nil
	}
	if c.now().Sub(entry.computedAt) >= c.ttl {
		delete(c.entries, fingerprint)
		return nil
	}
	return entry.result
}

func (c *ResultCache) Put(fingerprint string, result *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fingerprint] = cacheEntry{result: result, computedAt: c.now()}
}

func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
