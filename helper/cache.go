package helper

import (
	"container/list"
	"sync"
)

// DefaultCacheCapacity is used when a cache is created with a
// non-positive capacity.
const DefaultCacheCapacity = 32

type cacheEntry struct {
	key   string
	value string
}

// LRUCache is a fixed-capacity cache for extracted document text keyed by
// document id. When full, the least recently used entry is evicted. The
// cache is an explicit object owned by its caller, not a package-level
// singleton, and is safe for concurrent use.
type LRUCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[string]*list.Element
}

// NewLRUCache creates a cache holding at most capacity entries.
func NewLRUCache(capacity int) *LRUCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &LRUCache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get returns the cached value for key and marks it as recently used.
func (c *LRUCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.items[key]
	if !ok {
		return "", false
	}
	c.order.MoveToFront(element)
	return element.Value.(*cacheEntry).value, true
}

// Put stores a value under key, evicting the oldest entry when the cache
// is at capacity.
func (c *LRUCache) Put(key string, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, ok := c.items[key]; ok {
		element.Value.(*cacheEntry).value = value
		c.order.MoveToFront(element)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}

	c.items[key] = c.order.PushFront(&cacheEntry{key: key, value: value})
}

// Remove drops a single entry from the cache.
func (c *LRUCache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, ok := c.items[key]; ok {
		c.order.Remove(element)
		delete(c.items, key)
	}
}

// Len returns the number of cached entries.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Purge removes all entries.
func (c *LRUCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}
