package catalog

import "sync"

// Cache is an explicitly injected read-through cache for catalog entries,
// keyed by a catalog version string. When the version changes the previous
// generation is discarded wholesale, so a stale duration can outlive a
// catalog edit by at most one version read.
type Cache struct {
	mu      sync.RWMutex
	version string
	entries map[string]*Entry
}

// NewCache creates an empty catalog cache
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Entry)}
}

// Get returns the cached entry for path under the given version. The second
// return is false on a miss or version change.
func (c *Cache) Get(version, path string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if version != c.version {
		return nil, false
	}
	entry, ok := c.entries[path]
	return entry, ok
}

// Set stores an entry for path under the given version, flushing the cache
// first if the version moved.
func (c *Cache) Set(version, path string, entry *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if version != c.version {
		c.version = version
		c.entries = make(map[string]*Entry)
	}
	c.entries[path] = entry
}

// Invalidate drops all cached entries
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.version = ""
	c.entries = make(map[string]*Entry)
}
