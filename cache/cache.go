// Package cache stores rendered bracket documents so repeated reads skip the
// database and the layout computation.
//
// Two backends exist: an in-process memory cache for single instances and
// tests, and a Redis cache for deployments running several servers.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// LayoutCache keeps serialized bracket documents per event.
// Get reports a miss with ok=false and a nil error.
type LayoutCache interface {
	Get(ctx context.Context, eventID int) (data []byte, ok bool, err error)
	Set(ctx context.Context, eventID int, data []byte) error
	Invalidate(ctx context.Context, eventID int) error
}

func layoutKey(eventID int) string {
	return fmt.Sprintf("bracketview:layout:event:%d", eventID)
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is a TTL map guarded by a mutex.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, eventID int) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := layoutKey(eventID)
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.data, true, nil
}

func (c *MemoryCache) Set(_ context.Context, eventID int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[layoutKey(eventID)] = memoryEntry{data: data, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, eventID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, layoutKey(eventID))
	return nil
}
