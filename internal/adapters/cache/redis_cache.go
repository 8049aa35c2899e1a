package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/port"

	"github.com/redis/go-redis/v9"
)

// RedisCache общий кеш для нескольких инстансов сервиса.
// Значения хранятся в JSON, TTL обеспечивает Redis.
type RedisCache[V any] struct {
	client redis.UniversalClient
	name   string
	prefix string
	ttl    time.Duration
}

var _ port.ResultCache[int] = (*RedisCache[int])(nil)

// NewRedisCache ключи получают префикс "<keyPrefix>:<name>:"
func NewRedisCache[V any](client redis.UniversalClient, keyPrefix, name string, ttl time.Duration) *RedisCache[V] {
	return &RedisCache[V]{
		client: client,
		name:   name,
		prefix: keyPrefix + ":" + name + ":",
		ttl:    ttl,
	}
}

func (c *RedisCache[V]) key(key string) string {
	return c.prefix + key
}

func (c *RedisCache[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V

	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		recordMiss(c.name)
		return zero, false
	}
	if err != nil {
		recordError(c.name)
		contextkeys.LoggerFromContext(ctx).Warn("Redis cache read failed, treating as miss", port.Fields{
			"cache": c.name,
			"key":   key,
			"error": err.Error(),
		})
		return zero, false
	}

	var value V
	if err := json.Unmarshal(data, &value); err != nil {
		recordError(c.name)
		contextkeys.LoggerFromContext(ctx).Warn("Redis cache entry is corrupted, treating as miss", port.Fields{
			"cache": c.name,
			"key":   key,
			"error": err.Error(),
		})
		return zero, false
	}

	recordHit(c.name)
	return value, true
}

func (c *RedisCache[V]) Put(ctx context.Context, key string, value V) {
	data, err := json.Marshal(value)
	if err != nil {
		recordError(c.name)
		contextkeys.LoggerFromContext(ctx).Error("Failed to encode cache value", err, port.Fields{"cache": c.name, "key": key})
		return
	}

	if err := c.client.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		recordError(c.name)
		contextkeys.LoggerFromContext(ctx).Warn("Redis cache write failed", port.Fields{
			"cache": c.name,
			"key":   key,
			"error": err.Error(),
		})
	}
}
