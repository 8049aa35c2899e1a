package catalogclient

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type swrEntry struct {
	value      any
	fetchedAt  time.Time
	refreshing bool
}

// swrCache stale-while-revalidate: значение из кэша отдается сразу,
// а старше dedupe перезапрашивается в фоне. Неудачный перезапрос
// оставляет прежнее значение.
type swrCache struct {
	mu      sync.Mutex
	entries map[string]*swrEntry
	dedupe  time.Duration
	now     func() time.Time
	logger  Logger

	group singleflight.Group
	bg    sync.WaitGroup
}

func newSWRCache(dedupe time.Duration, now func() time.Time, logger Logger) *swrCache {
	return &swrCache{
		entries: make(map[string]*swrEntry),
		dedupe:  dedupe,
		now:     now,
		logger:  logger,
	}
}

func (c *swrCache) get(ctx context.Context, key string, fetch func(ctx context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		value := e.value
		if !e.refreshing && c.now().Sub(e.fetchedAt) >= c.dedupe {
			e.refreshing = true
			c.bg.Add(1)
			go c.revalidate(context.WithoutCancel(ctx), key, fetch)
		}
		c.mu.Unlock()
		return value, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = &swrEntry{value: value, fetchedAt: c.now()}
		c.mu.Unlock()
		return value, nil
	})
	return v, err
}

func (c *swrCache) revalidate(ctx context.Context, key string, fetch func(ctx context.Context) (any, error)) {
	defer c.bg.Done()

	value, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		// запись успели сбросить
		return
	}
	e.refreshing = false
	if err != nil {
		c.logger.Warn("Background revalidation failed, keeping cached value", "key", key, "error", err.Error())
		return
	}
	e.value = value
	e.fetchedAt = c.now()
}

// invalidate key == "" сбрасывает все записи
func (c *swrCache) invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key == "" {
		c.entries = make(map[string]*swrEntry)
		return
	}
	delete(c.entries, key)
}

// wait ждет фоновые перезапросы
func (c *swrCache) wait() {
	c.bg.Wait()
}
