// ABOUTME: In-memory page cache that wraps a rendering function with sha256-keyed caching.
// ABOUTME: Supports TTL-based expiry, concurrent access, and manual cache clearing.
package web

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// PageRenderFunc produces the HTML body for a page on a cache miss.
type PageRenderFunc func() ([]byte, error)

// cacheEntry holds a single cached page with its creation timestamp.
type cacheEntry struct {
	data      []byte
	createdAt time.Time
}

// PageCache is an in-memory HTML page cache. Keys are hashed with sha256
// and entries expire after the configured TTL.
type PageCache struct {
	ttl     time.Duration
	entries map[string]*cacheEntry
	mu      sync.RWMutex
}

// NewPageCache creates a PageCache whose entries expire after ttl.
func NewPageCache(ttl time.Duration) *PageCache {
	return &PageCache{
		ttl:     ttl,
		entries: make(map[string]*cacheEntry),
	}
}

// Get returns the cached page for key, calling render on a miss or after
// expiry. Errors are never cached.
func (c *PageCache) Get(key string, render PageRenderFunc) ([]byte, error) {
	hashed := cacheKey(key)

	// Check cache under read lock
	c.mu.RLock()
	if entry, ok := c.entries[hashed]; ok {
		if time.Since(entry.createdAt) < c.ttl {
			data := entry.data
			c.mu.RUnlock()
			return data, nil
		}
	}
	c.mu.RUnlock()

	// Cache miss or expired: render
	data, err := render()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[hashed] = &cacheEntry{
		data:      data,
		createdAt: time.Now(),
	}
	c.mu.Unlock()

	return data, nil
}

// Len returns the number of entries currently in the cache (including expired ones).
func (c *PageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries from the cache.
func (c *PageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// cacheKey hashes a page key into a fixed-width cache key.
func cacheKey(key string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
