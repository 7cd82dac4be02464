package cache

import (
	gocache "github.com/patrickmn/go-cache"
)

// Cache maps normalized repository keys to display strings for the
// lifetime of one build run. Entries never expire.
type Cache struct {
	inner *gocache.Cache
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{inner: gocache.New(gocache.NoExpiration, 0)}
}

// Get retrieves the display string stored under key.
func (c *Cache) Get(key string) (string, bool) {
	val, found := c.inner.Get(key)
	if !found {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}

// Set stores a display string under key.
func (c *Cache) Set(key, val string) {
	c.inner.Set(key, val, gocache.NoExpiration)
}

// Len returns the number of cached repositories.
func (c *Cache) Len() int {
	return c.inner.ItemCount()
}

// Flush clears all cached items.
func (c *Cache) Flush() {
	c.inner.Flush()
}
