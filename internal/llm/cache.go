package llm

import (
	"sync"
	"time"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
)

const defaultCacheTTL = 24 * time.Hour

type cacheEntry struct {
	expiry     time.Time
	enrichment model.Enrichment
}

// enrichmentCache keys replies by aggregate fingerprint so repeated runs
// over the same statements do not pay for a second call.
type enrichmentCache struct {
	entries map[string]cacheEntry
	now     func() time.Time
	ttl     time.Duration
	mu      sync.RWMutex
}

func newEnrichmentCache(ttl time.Duration) *enrichmentCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &enrichmentCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
		ttl:     ttl,
	}
}

func (c *enrichmentCache) get(key string) (model.Enrichment, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return model.Enrichment{}, false
	}
	if c.now().After(entry.expiry) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return model.Enrichment{}, false
	}
	return entry.enrichment, true
}

func (c *enrichmentCache) set(key string, enrichment model.Enrichment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		enrichment: enrichment,
		expiry:     c.now().Add(c.ttl),
	}
}

func (c *enrichmentCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
