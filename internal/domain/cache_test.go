package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// countingNormalizer counts how many times the inner normalizer runs.
type countingNormalizer struct {
	inner NameNormalizer
	calls int
}

func (c *countingNormalizer) Normalize(raw string) string {
	c.calls++
	return c.inner.Normalize(raw)
}

func TestCachedNormalizer(t *testing.T) {
	t.Run("caches repeated inputs", func(t *testing.T) {
		counting := &countingNormalizer{inner: newTestNormalizer()}
		cached := NewCachedNormalizer(counting, 10)

		for i := 0; i < 5; i++ {
			assert.Equal(t, "PERRY STREET", cached.Normalize("Perry St"))
		}
		assert.Equal(t, 1, counting.calls)
	})

	t.Run("distinct inputs miss independently", func(t *testing.T) {
		counting := &countingNormalizer{inner: newTestNormalizer()}
		cached := NewCachedNormalizer(counting, 10)

		cached.Normalize("Perry St")
		cached.Normalize("PERRY STREET")
		// Raw strings are the cache keys even when they normalize identically.
		assert.Equal(t, 2, counting.calls)
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		counting := &countingNormalizer{inner: newTestNormalizer()}
		cached := NewCachedNormalizer(counting, 2)

		cached.Normalize("Perry St")   // {perry}
		cached.Normalize("Charles St") // {perry, charles}
		cached.Normalize("Perry St")   // refreshes perry
		cached.Normalize("Bank St")    // evicts charles

		calls := counting.calls
		cached.Normalize("Perry St")
		assert.Equal(t, calls, counting.calls, "perry should still be cached")

		cached.Normalize("Charles St")
		assert.Equal(t, calls+1, counting.calls, "charles should have been evicted")
	})

	t.Run("bounded size", func(t *testing.T) {
		counting := &countingNormalizer{inner: newTestNormalizer()}
		cached := NewCachedNormalizer(counting, 3)

		for i := 0; i < 100; i++ {
			cached.Normalize(fmt.Sprintf("%d Street", i))
		}
		assert.Equal(t, 3, len(cached.cache.entries))
	})
}
