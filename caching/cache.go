package caching

import (
	"sync"
	"time"

	"stashplexagent/provider"
)

// entry is a cached container with its insertion time
type entry struct {
	value   *provider.MediaContainerResponse
	addedAt time.Time
}

// Cache is a thread-safe TTL cache of translated containers keyed by query
// fingerprint. Expiration is lazy: an expired entry is evicted on the next
// Get. A TTL ≤ 0 disables caching entirely.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*entry
	ttl   time.Duration
}

// New creates a cache with the given TTL
func New(ttl time.Duration) *Cache {
	return &Cache{
		items: make(map[string]*entry),
		ttl:   ttl,
	}
}

// Get returns the cached container for a fingerprint, or false if it is
// missing or has expired.
func (c *Cache) Get(fingerprint string) (*provider.MediaContainerResponse, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	c.mu.RLock()
	item, exists := c.items[fingerprint]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Since(item.addedAt) > c.ttl {
		c.mu.Lock()
		delete(c.items, fingerprint)
		c.mu.Unlock()
		return nil, false
	}

	return item.value, true
}

// Set stores a container. No-op when caching is disabled. Concurrent writers
// for the same fingerprint are not serialized; last writer wins.
func (c *Cache) Set(fingerprint string, value *provider.MediaContainerResponse) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[fingerprint] = &entry{
		value:   value,
		addedAt: time.Now(),
	}
}

// Size returns the number of entries, expired ones included
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}
