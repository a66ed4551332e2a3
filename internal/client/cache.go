package client

import "sync"

// cacheKey identifies one cached value: a resource plus an optional id. The
// empty id addresses the resource's collection.
type cacheKey struct {
	resource string
	id       string
}

// cache is a process-local store for decoded API responses. Entries stay
// until explicitly invalidated; there is no TTL and no background refresh.
type cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]any
}

func newCache() *cache {
	return &cache{entries: map[cacheKey]any{}}
}

func (c *cache) get(resource, id string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[cacheKey{resource: resource, id: id}]
	return v, ok
}

func (c *cache) set(resource, id string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{resource: resource, id: id}] = v
}

func (c *cache) invalidate(resource, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey{resource: resource, id: id})
}
