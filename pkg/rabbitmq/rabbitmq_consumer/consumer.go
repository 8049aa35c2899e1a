package rabbitmq_consumer

import (
	"context"
)

// Consumer общий контракт потребителей пакета
type Consumer interface {
	// StartConsuming блокируется до отмены контекста или потери соединения
	StartConsuming(ctx context.Context) error
	Close() error
}
