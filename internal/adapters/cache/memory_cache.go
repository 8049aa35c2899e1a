package cache

import (
	"context"
	"sync"
	"time"

	"catalog-service/internal/core/port"
)

type memoryEntry[V any] struct {
	value    V
	storedAt time.Time
}

// MemoryCache кеш в памяти процесса. Записи не вытесняются,
// протухшая запись просто считается отсутствующей и перезаписывается.
type MemoryCache[V any] struct {
	name    string
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]memoryEntry[V]
}

var _ port.ResultCache[int] = (*MemoryCache[int])(nil)

// MemoryOption настройка MemoryCache
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	now func() time.Time
}

// WithClock подменяет часы, нужно для тестов свежести
func WithClock(now func() time.Time) MemoryOption {
	return func(o *memoryOptions) { o.now = now }
}

func NewMemoryCache[V any](name string, ttl time.Duration, opts ...MemoryOption) *MemoryCache[V] {
	o := memoryOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryCache[V]{
		name:    name,
		ttl:     ttl,
		now:     o.now,
		entries: make(map[string]memoryEntry[V]),
	}
}

func (c *MemoryCache[V]) Get(_ context.Context, key string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		recordMiss(c.name)
		var zero V
		return zero, false
	}

	recordHit(c.name)
	return entry.value, true
}

func (c *MemoryCache[V]) Put(_ context.Context, key string, value V) {
	c.mu.Lock()
	c.entries[key] = memoryEntry[V]{value: value, storedAt: c.now()}
	c.mu.Unlock()
}

// Len число записей, включая протухшие
func (c *MemoryCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
