package port

import (
	"context"
)

// ResultCache мемоизация с TTL. Get возвращает false для отсутствующей
// или протухшей записи, Put всегда перезаписывает и обновляет метку времени.
// Ошибки бэкенда не пробрасываются: для вызывающего это промах.
type ResultCache[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	Put(ctx context.Context, key string, value V)
}
