package helper

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUCache(t *testing.T) {
	t.Run("Get returns stored value", func(t *testing.T) {
		cache := NewLRUCache(4)
		cache.Put("doc-1", "extracted text")

		value, ok := cache.Get("doc-1")

		assert.True(t, ok, "Expected Get to find the stored entry")
		assert.Equal(t, "extracted text", value)
	})

	t.Run("Get on missing key returns false", func(t *testing.T) {
		cache := NewLRUCache(4)

		_, ok := cache.Get("missing")

		assert.False(t, ok)
	})

	t.Run("Put overwrites existing key", func(t *testing.T) {
		cache := NewLRUCache(4)
		cache.Put("doc-1", "first")
		cache.Put("doc-1", "second")

		value, ok := cache.Get("doc-1")

		assert.True(t, ok)
		assert.Equal(t, "second", value)
		assert.Equal(t, 1, cache.Len(), "Expected overwrite to not grow the cache")
	})

	t.Run("Oldest entry is evicted at capacity", func(t *testing.T) {
		cache := NewLRUCache(2)
		cache.Put("doc-1", "one")
		cache.Put("doc-2", "two")
		cache.Put("doc-3", "three")

		_, ok := cache.Get("doc-1")
		assert.False(t, ok, "Expected oldest entry to be evicted")

		_, ok = cache.Get("doc-2")
		assert.True(t, ok)
		_, ok = cache.Get("doc-3")
		assert.True(t, ok)
	})

	t.Run("Get refreshes recency", func(t *testing.T) {
		cache := NewLRUCache(2)
		cache.Put("doc-1", "one")
		cache.Put("doc-2", "two")

		// Touch doc-1 so doc-2 becomes the eviction candidate.
		_, ok := cache.Get("doc-1")
		assert.True(t, ok)

		cache.Put("doc-3", "three")

		_, ok = cache.Get("doc-1")
		assert.True(t, ok, "Expected recently used entry to survive eviction")
		_, ok = cache.Get("doc-2")
		assert.False(t, ok, "Expected least recently used entry to be evicted")
	})

	t.Run("Remove drops a single entry", func(t *testing.T) {
		cache := NewLRUCache(4)
		cache.Put("doc-1", "one")
		cache.Put("doc-2", "two")

		cache.Remove("doc-1")

		_, ok := cache.Get("doc-1")
		assert.False(t, ok)
		assert.Equal(t, 1, cache.Len())
	})

	t.Run("Purge removes all entries", func(t *testing.T) {
		cache := NewLRUCache(4)
		cache.Put("doc-1", "one")
		cache.Put("doc-2", "two")

		cache.Purge()

		assert.Equal(t, 0, cache.Len())
	})

	t.Run("Non-positive capacity falls back to default", func(t *testing.T) {
		cache := NewLRUCache(0)

		for i := 0; i < DefaultCacheCapacity; i++ {
			cache.Put(fmt.Sprintf("doc-%d", i), "text")
		}

		assert.Equal(t, DefaultCacheCapacity, cache.Len())
	})

	t.Run("Concurrent access is safe", func(t *testing.T) {
		cache := NewLRUCache(16)
		done := make(chan struct{})

		for w := 0; w < 4; w++ {
			go func(w int) {
				defer func() { done <- struct{}{} }()
				for i := 0; i < 100; i++ {
					key := fmt.Sprintf("doc-%d", i%8)
					cache.Put(key, "text")
					cache.Get(key)
				}
			}(w)
		}

		for w := 0; w < 4; w++ {
			<-done
		}

		assert.LessOrEqual(t, cache.Len(), 16)
	})
}
