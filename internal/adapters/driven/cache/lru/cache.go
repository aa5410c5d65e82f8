// Package lru provides a bounded, optionally expiring driven.Cache.
package lru

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driven"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/logger"
)

// Ensure Cache implements the interface.
var _ driven.Cache[string, string] = (*Cache[string, string])(nil)

// Cache is a least-recently-used cache with an optional TTL.
// Entries beyond capacity evict the least recently used one.
type Cache[K comparable, V any] struct {
	name      string
	lru       *expirable.LRU[K, V]
	evictions atomic.Int64
}

// New creates a cache holding at most capacity entries.
// A capacity of zero or less means unbounded; a ttl of zero means entries never expire.
// The name only appears in log output.
func New[K comparable, V any](name string, capacity int, ttl time.Duration) *Cache[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	c := &Cache[K, V]{name: name}
	c.lru = expirable.NewLRU[K, V](capacity, c.onEvict, ttl)
	return c
}

func (c *Cache[K, V]) onEvict(key K, _ V) {
	c.evictions.Add(1)
	logger.Debug("%s cache evicted %v", c.name, key)
}

// Get returns the value for key and marks it recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.lru.Get(key)
}

// Add stores value under key.
func (c *Cache[K, V]) Add(key K, value V) {
	c.lru.Add(key, value)
}

// Remove deletes key, reporting whether it was present.
func (c *Cache[K, V]) Remove(key K) bool {
	return c.lru.Remove(key)
}

// Keys returns the live keys from oldest to newest.
func (c *Cache[K, V]) Keys() []K {
	return c.lru.Keys()
}

// Len returns the number of live entries.
func (c *Cache[K, V]) Len() int {
	return c.lru.Len()
}

// Purge removes every entry.
func (c *Cache[K, V]) Purge() {
	c.lru.Purge()
}

// Evictions returns how many entries were dropped for capacity, expiry or removal.
func (c *Cache[K, V]) Evictions() int64 {
	return c.evictions.Load()
}
