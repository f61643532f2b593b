package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCache returns a cache whose clock the test controls. The cleanup
// goroutine is irrelevant here because expiry is checked on every read.
func newTestCache(at *time.Time) *MemoryCache {
	c := NewMemoryCache()
	c.now = func() time.Time { return *at }
	return c
}

func TestMemoryCacheSetGet(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	c := newTestCache(&now)
	ctx := context.Background()

	err := c.Set(ctx, "latest:USD", []byte(`{"base":"USD"}`), 5*time.Minute)
	require.NoError(t, err)

	got, err := c.Get(ctx, "latest:USD")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"base":"USD"}`), got)

	// Unknown key is a miss, not an error
	got, err = c.Get(ctx, "latest:EUR")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCacheExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	c := newTestCache(&now)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 5*time.Minute))

	// Just inside the TTL the entry is still served
	now = now.Add(5*time.Minute - time.Second)
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	// Past the TTL the entry reads as missing even though cleanup has not run
	now = now.Add(2 * time.Second)
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got, "Expired entries should read as a miss")
}

func TestMemoryCacheZeroTTLNeverExpires(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	c := newTestCache(&now)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "alerts", []byte(`[]`), 0))

	now = now.AddDate(1, 0, 0)
	got, err := c.Get(ctx, "alerts")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got, "Zero TTL entries should survive indefinitely")
}

func TestMemoryCacheOverwriteReplacesValue(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	c := newTestCache(&now)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("first"), time.Minute))
	require.NoError(t, c.Set(ctx, "k", []byte("second"), time.Hour))

	// Last write wins, including its TTL
	now = now.Add(30 * time.Minute)
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestMemoryCacheRemoveAndClear(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	c := newTestCache(&now)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Minute))

	require.NoError(t, c.Remove(ctx, "a"))
	got, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Removing a missing key is a no-op
	require.NoError(t, c.Remove(ctx, "missing"))

	require.NoError(t, c.Clear(ctx))
	got, err = c.Get(ctx, "b")
	require.NoError(t, err)
	assert.Nil(t, got)
}
