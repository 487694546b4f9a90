// Package cache provides the memo tables used during a single import.
package cache

import (
	"strings"
	"sync"

	"github.com/Faultbox/ldrawkit/pkg/ldraw"
)

// Cache is a keyed memo table with hit/miss counters.
type Cache[K comparable, V any] struct {
	data map[K]V
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// New creates an empty cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		data: make(map[K]V),
	}
}

// Get retrieves an item from the cache.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.data[key]
	c.record(ok)
	return v, ok
}

// Set stores an item. Stored values must not be mutated afterwards.
func (c *Cache[K, V]) Set(key K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = v
}

// Clear removes every entry and resets the counters.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[K]V)
	c.hits = 0
	c.misses = 0
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func (c *Cache[K, V]) record(hit bool) {
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}

// DocumentCache holds parsed documents by filename. LDraw names are case
// insensitive, so lookups fall back to the lower-cased key.
type DocumentCache struct {
	c *Cache[string, *ldraw.Document]
}

// NewDocumentCache creates an empty document cache.
func NewDocumentCache() *DocumentCache {
	return &DocumentCache{c: New[string, *ldraw.Document]()}
}

// Get returns the document stored under name or its lower-cased form.
func (d *DocumentCache) Get(name string) (*ldraw.Document, bool) {
	d.c.mu.Lock()
	defer d.c.mu.Unlock()

	doc, ok := d.c.data[name]
	if !ok {
		doc, ok = d.c.data[strings.ToLower(name)]
	}
	d.c.record(ok)
	return doc, ok
}

// Set stores doc under name, and under the lower-cased name unless that
// key is already taken.
func (d *DocumentCache) Set(name string, doc *ldraw.Document) {
	d.c.mu.Lock()
	defer d.c.mu.Unlock()

	d.c.data[name] = doc
	lower := strings.ToLower(name)
	if _, ok := d.c.data[lower]; !ok {
		d.c.data[lower] = doc
	}
}

// Clear removes every document.
func (d *DocumentCache) Clear() {
	d.c.Clear()
}

// Len returns the number of keys, including lower-cased aliases.
func (d *DocumentCache) Len() int {
	return d.c.Len()
}

// Stats returns cache statistics.
func (d *DocumentCache) Stats() (hits, misses int) {
	return d.c.Stats()
}
