// Package cache provides the TTL key/value cache that backs per-symbol data.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Store is a byte-valued cache with per-entry TTL and prefix invalidation.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	InvalidatePrefix(ctx context.Context, prefix string) error
	Len(ctx context.Context) (int, error)
	Close() error
}

// entry wraps a cached value with expiry and insertion order tracking.
type entry struct {
	value     []byte
	expiry    time.Time
	insertIdx int64
}

// MemoryStore is an in-process Store. Expired entries are removed lazily and
// the oldest entry is evicted once maxEntries is reached.
// Thread-safe with sync.RWMutex.
type MemoryStore struct {
	mu         sync.RWMutex
	items      map[string]entry
	maxEntries int
	nextIdx    int64
	now        func() time.Time
}

// NewMemoryStore creates a MemoryStore holding at most maxEntries values.
// A non-positive maxEntries means unbounded.
func NewMemoryStore(maxEntries int) *MemoryStore {
	return &MemoryStore{
		items:      make(map[string]entry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns a cached value if found and not expired.
func (c *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	if c.expired(e) {
		// Expired: remove lazily
		c.mu.Lock()
		if e2, ok2 := c.items[key]; ok2 && c.expired(e2) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}

	return e.value, true, nil
}

// Set stores a value. A non-positive ttl never expires. Evicts the oldest
// entry if at capacity.
func (c *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{
		value:     value,
		insertIdx: c.nextIdx,
	}
	if ttl > 0 {
		e.expiry = c.now().Add(ttl)
	}
	c.nextIdx++

	// If key already exists, update in place (no capacity change)
	if _, exists := c.items[key]; exists {
		c.items[key] = e
		return nil
	}

	if c.maxEntries > 0 && len(c.items) >= c.maxEntries {
		c.evictOldest()
	}

	c.items[key] = e
	return nil
}

// Delete removes key.
func (c *MemoryStore) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

// InvalidatePrefix removes all entries whose key starts with prefix.
func (c *MemoryStore) InvalidatePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
	return nil
}

// Len returns the number of entries, including expired ones not yet collected.
func (c *MemoryStore) Len(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items), nil
}

// Close is a no-op.
func (c *MemoryStore) Close() error {
	return nil
}

func (c *MemoryStore) expired(e entry) bool {
	return !e.expiry.IsZero() && c.now().After(e.expiry)
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (c *MemoryStore) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range c.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
