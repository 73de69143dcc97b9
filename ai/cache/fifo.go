// Package cache provides small in-memory caches for the ai pipeline.
package cache

import (
	"container/list"
	"sync"
)

// FIFOCache implements a bounded first-in-first-out cache with generics.
// Unlike an LRU, reads do not refresh an entry's position: once the
// capacity is exceeded the oldest written entry is evicted, regardless
// of how often it was read since. Safe for concurrent use.
type FIFOCache[K comparable, V any] struct {
	cache    map[K]*entry[K, V]
	order    *list.List
	capacity int
	mu       sync.Mutex
}

type entry[K comparable, V any] struct {
	element *list.Element
	key     K
	value   V
}

// NewFIFOCache creates a new FIFO cache with the given capacity.
func NewFIFOCache[K comparable, V any](capacity int) *FIFOCache[K, V] {
	if capacity <= 0 {
		capacity = 1000
	}
	return &FIFOCache[K, V]{
		capacity: capacity,
		cache:    make(map[K]*entry[K, V]),
		order:    list.New(),
	}
}

// Get retrieves a value from the cache.
func (c *FIFOCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.cache[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores a value in the cache, evicting the oldest entry when full.
// Updating an existing key keeps its original insertion position.
func (c *FIFOCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.cache[key]; ok {
		e.value = value
		return
	}

	for len(c.cache) >= c.capacity {
		c.evictOldest()
	}

	e := &entry[K, V]{key: key, value: value}
	e.element = c.order.PushFront(e)
	c.cache[key] = e
}

// Size returns the number of entries in the cache.
func (c *FIFOCache[K, V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Clear removes all entries from the cache.
func (c *FIFOCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[K]*entry[K, V])
	c.order.Init()
}

// Capacity returns the maximum capacity of the cache.
func (c *FIFOCache[K, V]) Capacity() int {
	return c.capacity
}

// evictOldest removes the oldest inserted entry.
// Must be called with lock held.
func (c *FIFOCache[K, V]) evictOldest() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	e, ok := oldest.Value.(*entry[K, V])
	if !ok {
		return
	}
	c.order.Remove(e.element)
	delete(c.cache, e.key)
}
