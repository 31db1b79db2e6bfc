package cache

import (
	"context"
	"sync"
	"time"

	"tokenlens/internal/domain"
)

type memoryEntry struct {
	snapshot  *domain.MarketSnapshot
	expiresAt time.Time
}

// MemoryCache is the default in-process snapshot cache: a mutex-guarded map
// with lazy eviction. Concurrent misses for the same address may both fetch;
// the later Set simply overwrites with equally valid data.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, address string) (*domain.MarketSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[address]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, address)
		return nil, false
	}
	return entry.snapshot, true
}

func (c *MemoryCache) Set(_ context.Context, address string, snap *domain.MarketSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[address] = memoryEntry{snapshot: snap, expiresAt: c.now().Add(c.ttl)}
}

func (c *MemoryCache) Invalidate(_ context.Context, address string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, address)
}

func (c *MemoryCache) InvalidateAll(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
}
