package converter

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridfix/gridfix/internal/coordinate"
)

func entryFor(n int) (string, *coordinate.Coordinate, *coordinate.Conversions) {
	key := fmt.Sprintf("latlong:%d, %d", n, n)
	point := &coordinate.LatLong{Lat: float64(n), Lng: float64(n)}
	c := &coordinate.Coordinate{Format: coordinate.FormatLatLong, LatLong: point}
	return key, c, &coordinate.Conversions{LatLong: point}
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "mgrs:18t wl 83959 07351", CacheKey(coordinate.FormatMGRS, "  18T WL 83959 07351 "))
	assert.NotEqual(t,
		CacheKey(coordinate.FormatLatLong, "18"),
		CacheKey(coordinate.FormatUTM, "18"))
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newConversionCache(100, time.Minute)

	for i := 0; i < 100; i++ {
		key, from, conv := entryFor(i)
		c.Put(key, from, conv)
	}

	// Touch entry 0 so entry 1 becomes the oldest.
	key0, _, _ := entryFor(0)
	_, ok := c.Get(key0)
	require.True(t, ok)

	key, from, conv := entryFor(100)
	c.Put(key, from, conv)

	key1, _, _ := entryFor(1)
	_, ok = c.Get(key1)
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = c.Get(key0)
	assert.True(t, ok, "recently read entry should survive eviction")

	stats := c.Stats()
	assert.Equal(t, 100, stats.Entries)
	assert.Equal(t, int64(1), stats.Evictions)
}

func TestCache_LazyTTL(t *testing.T) {
	c := newConversionCache(10, 10*time.Millisecond)

	key, from, conv := entryFor(1)
	c.Put(key, from, conv)

	_, ok := c.Get(key)
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get(key)
	assert.False(t, ok, "expired entry should be dropped on read")
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestCache_PutUpdatesExisting(t *testing.T) {
	c := newConversionCache(10, time.Minute)

	key, from, conv := entryFor(1)
	c.Put(key, from, conv)
	_, _, replacement := entryFor(2)
	c.Put(key, from, replacement)

	entry, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, replacement, entry.conversions)
	assert.Equal(t, 1, c.Stats().Entries)
}

func TestCache_Clear(t *testing.T) {
	c := newConversionCache(10, time.Minute)
	for i := 0; i < 5; i++ {
		key, from, conv := entryFor(i)
		c.Put(key, from, conv)
	}
	c.Clear()
	assert.Equal(t, 0, c.Stats().Entries)

	key, _, _ := entryFor(0)
	_, ok := c.Get(key)
	assert.False(t, ok)
}
