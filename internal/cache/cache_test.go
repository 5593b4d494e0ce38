package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newFrozenCache[K comparable, V any](at *time.Time) Cache[K, V] {
	c := NewTTLCache[K, V]().(*ttlCache[K, V])
	c.now = func() time.Time { return *at }
	return c
}

func TestCacheSetGet(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newFrozenCache[string, int](&now)

	c.Set("a", 1, time.Minute)

	got, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, got)

	_, ok = c.Get("missing")
	require.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newFrozenCache[string, string](&now)

	c.Set("k", "v", time.Minute)

	now = now.Add(time.Minute + time.Second)
	_, ok := c.Get("k")
	require.False(t, ok)
}

func TestCacheDelete(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newFrozenCache[string, int](&now)

	c.Set("k", 9, time.Hour)
	c.Delete("k")

	_, ok := c.Get("k")
	require.False(t, ok)
}

func TestCacheIgnoresNonPositiveTTL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newFrozenCache[string, int](&now)

	c.Set("k", 9, 0)

	_, ok := c.Get("k")
	require.False(t, ok)
}
