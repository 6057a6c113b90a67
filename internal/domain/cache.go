package domain

import "sync"

// CachedNormalizer memoizes an inner normalizer behind a bounded LRU cache.
// The centerline feed repeats raw names across hundreds of thousands of
// segments, so the join hits the same inputs constantly.
type CachedNormalizer struct {
	inner NameNormalizer
	cache *lruCache
}

// NewCachedNormalizer wraps a normalizer with an LRU cache of maxEntries.
func NewCachedNormalizer(inner NameNormalizer, maxEntries int) *CachedNormalizer {
	return &CachedNormalizer{
		inner: inner,
		cache: newLRUCache(maxEntries),
	}
}

func (c *CachedNormalizer) Normalize(raw string) string {
	if key, ok := c.cache.get(raw); ok {
		return key
	}
	key := c.inner.Normalize(raw)
	c.cache.put(raw, key)
	return key
}

// lruCache is a simple thread-safe LRU cache of raw name → canonical key.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value string
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
