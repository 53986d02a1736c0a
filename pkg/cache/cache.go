// Package cache provides a thread-safe LRU cache of compilation results.
//
// The cache is used by the compiler when the WithCaching option is enabled.
// Results are only valid for the configuration they were compiled with; the compiler
// clears its cache whenever its configuration changes.
//
// # Example
//
//	c := cache.New(1024)
//	res := c.GetOrCompile("3.5 + 7.45", compile)
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/faktorips/fl/pkg/types"
)

// entry is a cache entry stored in the doubly-linked list.
type entry struct {
	key    string
	result *types.CompilationResult
}

// Cache is a thread-safe LRU (Least Recently Used) cache of compilation results.
// Once the capacity is reached, the least recently accessed entry is evicted.
//
// Safe for concurrent use by multiple goroutines.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a new LRU cache with the given capacity.
// capacity must be > 0; if <= 0, a default of 256 is used.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 256
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get retrieves a compilation result from the cache.
// Returns (result, true) if found and moves the entry to front (MRU).
// Returns (nil, false) if not present.
func (c *Cache) Get(key string) (*types.CompilationResult, bool) {
	var res *types.CompilationResult
	c.mu.RLock()
	el, ok := c.items[key]
	front := ok && c.ll.Front() == el
	if ok {
		res = el.Value.(*entry).result
	}
	c.mu.RUnlock()
	if !ok {
		c.misses.Add(1)
		return nil, false
	}

	if !front {
		// Promote to front under write lock; re-check in case of concurrent eviction.
		c.mu.Lock()
		el, ok = c.items[key]
		if ok {
			c.ll.MoveToFront(el)
			res = el.Value.(*entry).result
		}
		c.mu.Unlock()

		if !ok {
			c.misses.Add(1)
			return nil, false
		}
	}
	c.hits.Add(1)
	return res, true
}

// Set inserts or replaces a result in the cache.
// If at capacity, the least recently used entry is evicted first.
func (c *Cache) Set(key string, result *types.CompilationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry).result = result
		c.ll.MoveToFront(el)
		return
	}

	if c.ll.Len() >= c.capacity {
		c.evictLocked()
	}

	el := c.ll.PushFront(&entry{key: key, result: result})
	c.items[key] = el
}

// GetOrCompile retrieves the result for key from cache, or calls compile()
// to create it, caches the result, and returns it. Failed results are
// cached too: compiling the same text again yields the same diagnostics.
func (c *Cache) GetOrCompile(key string, compile func() *types.CompilationResult) *types.CompilationResult {
	if res, ok := c.Get(key); ok {
		return res
	}
	res := compile()
	c.Set(key, res)
	return res
}

// Len returns the number of entries currently in the cache.
func (c *Cache) Len() int {
	c.mu.RLock()
	n := len(c.items)
	c.mu.RUnlock()
	return n
}

// Stats returns the number of lookups that found, and did not find, an entry.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Capacity returns the maximum number of entries the cache can hold.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Invalidate removes a single entry from the cache.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.ll.Remove(el)
		delete(c.items, key)
	}
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

// evictLocked removes the least recently used entry.
// Must be called with c.mu held for writing.
func (c *Cache) evictLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
