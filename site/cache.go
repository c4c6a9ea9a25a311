package site

import "sync"

// Cache is a concurrency-safe byte cache keyed by artifact name, so a
// reload does not refetch artifacts the site already served us.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewCache() *Cache {
	return &Cache{entries: map[string][]byte{}}
}

func (c *Cache) Read(name string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	body, ok := c.entries[name]
	return body, ok
}

func (c *Cache) Add(name string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = body
}

// Invalidate drops every cached artifact.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string][]byte{}
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
