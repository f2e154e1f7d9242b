package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process LRU cache with per-entry TTL. It backs the
// suggestion cache when no Redis DSN is configured and is what the tests use.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*memoryEntry
	order      *list.List
	capacity   int
	defaultTTL time.Duration
}

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
	element   *list.Element
}

// NewMemoryCache creates an in-memory cache holding at most capacity entries.
func NewMemoryCache(capacity int, defaultTTL time.Duration) *MemoryCache {
	if capacity <= 0 {
		capacity = 1000
	}
	if defaultTTL <= 0 {
		defaultTTL = 6 * time.Hour
	}
	return &MemoryCache{
		entries:    make(map[string]*memoryEntry),
		order:      list.New(),
		capacity:   capacity,
		defaultTTL: defaultTTL,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(e.expiresAt) {
		c.removeEntry(e)
		return nil, false, nil
	}

	c.order.MoveToFront(e.element)
	return e.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = time.Now().Add(ttl)
		c.order.MoveToFront(e.element)
		return nil
	}

	for len(c.entries) >= c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.removeEntry(oldest.Value.(*memoryEntry))
	}

	e := &memoryEntry{key: key, value: value, expiresAt: time.Now().Add(ttl)}
	e.element = c.order.PushFront(e)
	c.entries[key] = e
	return nil
}

// Size returns the number of stored entries, expired ones included.
func (c *MemoryCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*memoryEntry)
	c.order.Init()
	return nil
}

// removeEntry must be called with the lock held.
func (c *MemoryCache) removeEntry(e *memoryEntry) {
	c.order.Remove(e.element)
	delete(c.entries, e.key)
}
