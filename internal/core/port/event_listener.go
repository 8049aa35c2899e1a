package port

import "context"

// EventListenerPort фоновый слушатель очереди
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
