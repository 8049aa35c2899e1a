package rabbitmq_producer

import (
	"context"
	"fmt"
	"sync"

	"catalog-service/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PublisherConfig конфигурация издателя
type PublisherConfig struct {
	rabbitmq_common.Config
	ExchangeName    string // пустая строка означает default exchange
	ExchangeType    string
	DurableExchange bool

	// Если false, обменник должен уже существовать
	DeclareExchangeIfMissing bool

	Logger rabbitmq_common.Logger
}

// Publisher публикует сообщения в один обменник через собственный канал
type Publisher struct {
	config     PublisherConfig
	connection *amqp.Connection
	channel    *amqp.Channel
	mu         sync.Mutex

	Logger rabbitmq_common.Logger
}

// NewPublisher открывает канал и при необходимости объявляет обменник
func NewPublisher(cfg PublisherConfig, connManager *rabbitmq_common.ConnectionManager) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("producer: invalid config: %w", err)
	}
	if cfg.DeclareExchangeIfMissing && (cfg.ExchangeName == "" || cfg.ExchangeType == "") {
		return nil, fmt.Errorf("producer: exchange name and type are required to declare an exchange")
	}
	if connManager == nil {
		return nil, fmt.Errorf("producer: connection manager is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("producer: failed to get channel: %w", err)
	}

	if cfg.DeclareExchangeIfMissing {
		err = ch.ExchangeDeclare(cfg.ExchangeName, cfg.ExchangeType, cfg.DurableExchange, false, false, false, nil)
		if err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("producer: failed to declare exchange %q: %w", cfg.ExchangeName, err)
		}
	}

	logger.Debug("Publisher ready", "exchange", cfg.ExchangeName)
	return &Publisher{config: cfg, connection: conn, channel: ch, Logger: logger}, nil
}

// Publish отправляет сообщение. Канал amqp не потокобезопасен для публикаций, поэтому mutex.
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.connection == nil || p.connection.IsClosed() {
		return fmt.Errorf("producer: channel or connection is closed")
	}

	if err := p.channel.PublishWithContext(ctx, p.config.ExchangeName, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("producer: failed to publish message: %w", err)
	}
	return nil
}

// Close закрывает канал издателя
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return nil
	}
	err := p.channel.Close()
	p.channel = nil
	if err != nil {
		p.Logger.Error(err, "Error closing publisher channel")
		return err
	}
	p.Logger.Debug("Publisher closed", "exchange", p.config.ExchangeName)
	return nil
}
