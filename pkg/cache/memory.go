package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process Cache with lazy expiry and least-recently-used
// eviction once the entry bound is reached.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*Entry
	maxEntries int
	defaultTTL time.Duration
	stats      Stats
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates a memory cache holding at most maxEntries items.
// A maxEntries of zero or less means unbounded; a defaultTTL of zero means
// entries never expire unless Set is given an explicit TTL.
func NewMemoryCache(maxEntries int, defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]*Entry),
		maxEntries: maxEntries,
		defaultTTL: defaultTTL,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.LastAccess = time.Now()

	entry, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return nil, false, nil
	}
	if entry.IsExpired() {
		delete(c.entries, key)
		c.stats.Misses++
		return nil, false, nil
	}

	entry.AccessedAt = time.Now()
	c.stats.Hits++
	return entry.Value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	now := time.Now()
	entry := &Entry{
		Key:        key,
		Value:      value,
		CreatedAt:  now,
		AccessedAt: now,
	}
	if ttl > 0 {
		entry.ExpiresAt = now.Add(ttl)
	}

	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	c.entries[key] = entry
	c.stats.Sets++
	return nil
}

// evictOldest drops the least recently accessed entry. Callers hold the lock.
func (c *MemoryCache) evictOldest() {
	var oldestKey string
	var oldestAccess time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.AccessedAt.Before(oldestAccess) {
			oldestKey = key
			oldestAccess = entry.AccessedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.stats.Deletes++
	}
	return nil
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*Entry)
	return nil
}

func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = int64(len(c.entries))
	stats.MaxEntries = int64(c.maxEntries)
	return stats
}

func (c *MemoryCache) Close() error {
	return c.Clear(context.Background())
}
