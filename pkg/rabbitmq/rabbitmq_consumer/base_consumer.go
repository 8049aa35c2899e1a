package rabbitmq_consumer

import (
	"fmt"
	"sync"

	"catalog-service/pkg/rabbitmq/rabbitmq_common"
	"catalog-service/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConsumerConfig описывает очередь, привязку, QoS и цикл ретраев
type ConsumerConfig struct {
	rabbitmq_common.Config

	QueueName       string
	DeclareQueue    bool
	DurableQueue    bool
	ExclusiveQueue  bool
	AutoDeleteQueue bool
	QueueArgs       amqp.Table

	// Обменник для привязки очереди, пустое имя отключает привязку
	ExchangeNameForBind    string
	DeclareExchangeForBind bool
	ExchangeTypeForBind    string
	DurableExchangeForBind bool
	RoutingKeyForBind      string

	PrefetchCount int
	ConsumerTag   string

	// Ретраи: основная очередь -> RetryExchange -> RetryQueue (TTL) -> основной обменник.
	// После MaxRetries сообщение публикуется в FinalDLXExchange.
	EnableRetryMechanism bool
	RetryExchange        string
	RetryQueue           string
	RetryTTL             int // миллисекунды
	FinalDLXExchange     string
	FinalDLQ             string
	FinalDLQRoutingKey   string
	MaxRetries           int

	Logger rabbitmq_common.Logger
}

func (cfg ConsumerConfig) validate() error {
	if err := cfg.Config.Validate(); err != nil {
		return err
	}
	if !cfg.DeclareQueue && cfg.QueueName == "" {
		return fmt.Errorf("queue name is required if DeclareQueue is false")
	}
	if cfg.DeclareExchangeForBind && cfg.ExchangeTypeForBind == "" {
		return fmt.Errorf("exchange type is required when declaring exchange %q", cfg.ExchangeNameForBind)
	}
	if cfg.EnableRetryMechanism {
		if cfg.RetryExchange == "" || cfg.RetryQueue == "" || cfg.FinalDLXExchange == "" || cfg.FinalDLQ == "" {
			return fmt.Errorf("retry mechanism requires retry exchange, retry queue, final DLX and final DLQ names")
		}
		if cfg.RetryTTL <= 0 {
			return fmt.Errorf("retry TTL must be positive")
		}
	}
	return nil
}

// baseConsumer общая часть: канал, топология, QoS и финальный DLX
type baseConsumer struct {
	config            ConsumerConfig
	connection        *amqp.Connection
	channel           *amqp.Channel
	queueName         string
	finalDlxPublisher *rabbitmq_producer.Publisher
	wg                sync.WaitGroup

	Logger rabbitmq_common.Logger
}

func newBaseConsumer(cfg ConsumerConfig, connManager *rabbitmq_common.ConnectionManager) (*baseConsumer, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid consumer config: %w", err)
	}
	if connManager == nil {
		return nil, fmt.Errorf("connection manager is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	c := &baseConsumer{config: cfg, Logger: logger}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	c.connection = conn
	c.channel = ch

	if err := c.setup(); err != nil {
		_ = ch.Close()
		return nil, err
	}

	if cfg.EnableRetryMechanism {
		publisher, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:       cfg.Config,
			ExchangeName: cfg.FinalDLXExchange,
			Logger:       logger,
		}, connManager)
		if err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("failed to create final DLX publisher: %w", err)
		}
		c.finalDlxPublisher = publisher
	}

	return c, nil
}

func (c *baseConsumer) setup() error {
	if c.config.PrefetchCount > 0 {
		if err := c.channel.Qos(c.config.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	if c.config.EnableRetryMechanism {
		if err := c.declareRetryTopology(); err != nil {
			return err
		}
		if c.config.QueueArgs == nil {
			c.config.QueueArgs = amqp.Table{}
		}
		c.config.QueueArgs["x-dead-letter-exchange"] = c.config.RetryExchange
	}

	c.queueName = c.config.QueueName
	if c.config.DeclareQueue {
		q, err := c.channel.QueueDeclare(
			c.config.QueueName,
			c.config.DurableQueue,
			c.config.AutoDeleteQueue,
			c.config.ExclusiveQueue,
			false,
			c.config.QueueArgs,
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %q: %w", c.config.QueueName, err)
		}
		c.queueName = q.Name
	}

	if c.config.DeclareExchangeForBind {
		err := c.channel.ExchangeDeclare(
			c.config.ExchangeNameForBind,
			c.config.ExchangeTypeForBind,
			c.config.DurableExchangeForBind,
			false, false, false, nil,
		)
		if err != nil {
			return fmt.Errorf("failed to declare exchange %q: %w", c.config.ExchangeNameForBind, err)
		}
	}

	if c.config.ExchangeNameForBind != "" {
		err := c.channel.QueueBind(c.queueName, c.config.RoutingKeyForBind, c.config.ExchangeNameForBind, false, nil)
		if err != nil {
			return fmt.Errorf("failed to bind queue %q to exchange %q: %w", c.queueName, c.config.ExchangeNameForBind, err)
		}
	}

	c.Logger.Debug("Consumer topology ready", "queue", c.queueName, "exchange", c.config.ExchangeNameForBind)
	return nil
}

func (c *baseConsumer) declareRetryTopology() error {
	cfg := c.config

	if err := c.channel.ExchangeDeclare(cfg.FinalDLXExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare final DLX: %w", err)
	}
	if _, err := c.channel.QueueDeclare(cfg.FinalDLQ, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare final DLQ: %w", err)
	}
	if err := c.channel.QueueBind(cfg.FinalDLQ, cfg.FinalDLQRoutingKey, cfg.FinalDLXExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind final DLQ: %w", err)
	}

	if err := c.channel.ExchangeDeclare(cfg.RetryExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare retry exchange: %w", err)
	}
	_, err := c.channel.QueueDeclare(cfg.RetryQueue, true, false, false, false, amqp.Table{
		"x-message-ttl":          int32(cfg.RetryTTL),
		"x-dead-letter-exchange": cfg.ExchangeNameForBind,
	})
	if err != nil {
		return fmt.Errorf("failed to declare retry queue: %w", err)
	}
	if err := c.channel.QueueBind(cfg.RetryQueue, "", cfg.RetryExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind retry queue: %w", err)
	}
	return nil
}

// deathCount сколько раз сообщение было отвергнуто именно основной очередью
func deathCount(d amqp.Delivery, queueName string) int64 {
	deaths, ok := d.Headers["x-death"].([]interface{})
	if !ok {
		return 0
	}
	for _, death := range deaths {
		tbl, ok := death.(amqp.Table)
		if !ok {
			continue
		}
		if queue, _ := tbl["queue"].(string); queue != queueName {
			continue
		}
		if count, ok := tbl["count"].(int64); ok {
			return count
		}
	}
	return 0
}

// Close ждет обработчиков и закрывает канал. Соединение принадлежит ConnectionManager.
func (c *baseConsumer) Close() error {
	c.wg.Wait()

	var firstErr error
	if c.finalDlxPublisher != nil {
		if err := c.finalDlxPublisher.Close(); err != nil {
			c.Logger.Error(err, "Error closing final DLX publisher")
			firstErr = err
		}
	}
	if c.channel != nil {
		if err := c.channel.Close(); err != nil && firstErr == nil {
			c.Logger.Error(err, "Error closing channel")
			firstErr = err
		}
		c.channel = nil
	}

	c.Logger.Info("Consumer closed", "queue", c.queueName)
	return firstErr
}
