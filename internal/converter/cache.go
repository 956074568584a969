package converter

import (
	"container/list"
	"strings"
	"sync"
	"time"

	"github.com/gridfix/gridfix/internal/coordinate"
)

// CacheKey builds the cache key for a conversion request. Input text is
// lowercased and trimmed so textual variants of the same literal share an
// entry; the format tag keeps "18" as a zone distinct from "18" as a degree.
func CacheKey(format coordinate.Format, text string) string {
	return string(format) + ":" + strings.ToLower(strings.TrimSpace(text))
}

// cacheEntry holds one completed conversion.
type cacheEntry struct {
	key         string
	from        *coordinate.Coordinate
	conversions *coordinate.Conversions
	storedAt    time.Time
}

// conversionCache is a fixed-capacity LRU with a lazy TTL: expiry is checked
// on read, never swept. Reads promote, so eviction removes the entry that has
// gone longest without being requested.
type conversionCache struct {
	mu        sync.Mutex
	capacity  int
	ttl       time.Duration
	order     *list.List // front = most recently used
	items     map[string]*list.Element
	hits      int64
	misses    int64
	evictions int64
}

func newConversionCache(capacity int, ttl time.Duration) *conversionCache {
	return &conversionCache{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get returns the cached conversion for key, promoting it to most recently
// used. Entries older than the TTL are dropped and reported as misses.
func (c *conversionCache) Get(key string) (*cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}

	entry := el.Value.(*cacheEntry)
	if time.Since(entry.storedAt) > c.ttl {
		c.order.Remove(el)
		delete(c.items, key)
		c.misses++
		return nil, false
	}

	c.order.MoveToFront(el)
	c.hits++
	return entry, true
}

// Put stores a conversion, evicting the least recently used entry once the
// cache is full.
func (c *conversionCache) Put(key string, from *coordinate.Coordinate, conversions *coordinate.Conversions) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		entry := el.Value.(*cacheEntry)
		entry.from = from
		entry.conversions = conversions
		entry.storedAt = time.Now()
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
			c.evictions++
		}
	}

	c.items[key] = c.order.PushFront(&cacheEntry{
		key:         key,
		from:        from,
		conversions: conversions,
		storedAt:    time.Now(),
	})
}

// Clear drops all entries.
func (c *conversionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

// CacheStats contains cache counters for observability endpoints.
type CacheStats struct {
	Entries   int   `json:"entries"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

func (c *conversionCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Entries:   c.order.Len(),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}
