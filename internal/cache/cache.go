// Package cache provides the in-memory memoization layer for secondary
// source lookups. Searching a record keeper for a name is the most
// expensive request class in a run; memoizing the search result keeps a
// retry pass from re-spending rate-limit budget on names already resolved
// this run. It uses patrickmn/go-cache for TTL-based expiry.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache wraps go-cache for lookup memoization.
type Cache struct {
	store *gocache.Cache
}

// New creates a cache with the given TTL and cleanup interval.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache.
func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// SetWithTTL stores a value with a custom TTL.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

// Delete removes one key. Used to invalidate a memoized lookup when an
// override correction changes what the name should resolve to.
func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// Clear removes all items.
func (c *Cache) Clear() {
	c.store.Flush()
}

// Len returns the number of cached items, expired entries included until
// the next cleanup pass.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}
