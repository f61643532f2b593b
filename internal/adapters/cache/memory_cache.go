package cache

import (
	"context"
	"sync"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/providers"
)

type cacheEntry struct {
	value     []byte
	expiresAt time.Time // zero means the entry never expires
}

// MemoryCache implements providers.RateCache with in-process storage.
// Expiry is checked lazily on read, so an expired entry behaves exactly
// like a missing one even before the cleanup pass removes it.
type MemoryCache struct {
	entries map[string]*cacheEntry
	mu      sync.RWMutex

	now func() time.Time // overridable in tests
}

// Ensure implementation matches interface
var _ providers.RateCache = (*MemoryCache)(nil)

// MemoryCacheOption configures a MemoryCache.
type MemoryCacheOption func(*MemoryCache)

// WithCacheClock overrides the time source used for expiry checks.
func WithCacheClock(now func() time.Time) MemoryCacheOption {
	return func(c *MemoryCache) {
		c.now = now
	}
}

// NewMemoryCache creates a new in-memory cache and starts its cleanup loop.
func NewMemoryCache(options ...MemoryCacheOption) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]*cacheEntry),
		now:     time.Now,
	}

	for _, option := range options {
		option(c)
	}

	go c.cleanup()

	return c
}

// Get returns the stored bytes for key, or (nil, nil) on a miss or expired entry.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, nil
	}

	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		return nil, nil
	}

	return entry.value, nil
}

// Set stores value under key, replacing any previous entry whole.
// A zero ttl keeps the entry until it is removed explicitly.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &cacheEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.entries[key] = entry

	return nil
}

// Remove deletes the entry for key if present.
func (c *MemoryCache) Remove(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Clear drops every entry.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	return nil
}

// cleanup periodically removes expired entries so long-lived processes do not
// accumulate dead keys between reads.
func (c *MemoryCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := c.now()
		for key, entry := range c.entries {
			if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
				delete(c.entries, key)
			}
		}
		c.mu.Unlock()
	}
}
