package cache

import (
	"fmt"
	"time"

	"catalog-service/internal/core/port"

	"github.com/redis/go-redis/v9"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Options общие параметры всех экземпляров кеша сервиса
type Options struct {
	Backend   string
	TTL       time.Duration
	Redis     redis.UniversalClient
	KeyPrefix string
}

// New создает кеш выбранного бэкенда
func New[V any](name string, opts Options) (port.ResultCache[V], error) {
	if opts.TTL <= 0 {
		return nil, fmt.Errorf("cache %q: ttl must be positive", name)
	}

	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryCache[V](name, opts.TTL), nil
	case BackendRedis:
		if opts.Redis == nil {
			return nil, fmt.Errorf("cache %q: redis client is required for redis backend", name)
		}
		return NewRedisCache[V](opts.Redis, opts.KeyPrefix, name, opts.TTL), nil
	default:
		return nil, fmt.Errorf("cache %q: unknown backend %q", name, opts.Backend)
	}
}
