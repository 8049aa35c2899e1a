package rabbitmq_consumer

import (
	"context"
	"fmt"
	"time"

	"catalog-service/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// BatchMessageHandler обрабатывает пачку доставок.
// Ошибка означает, что вся пачка уходит в цикл ретраев.
type BatchMessageHandler func(ctx context.Context, deliveries []amqp.Delivery) error

// BatchConsumer копит сообщения до batchSize или до batchTimeout
type BatchConsumer struct {
	base         *baseConsumer
	handler      BatchMessageHandler
	batchSize    int
	batchTimeout time.Duration
}

var _ Consumer = (*BatchConsumer)(nil)

// NewBatchConsumer создает пакетного потребителя
func NewBatchConsumer(cfg ConsumerConfig, handler BatchMessageHandler, batchSize int, batchTimeout time.Duration, connManager *rabbitmq_common.ConnectionManager) (*BatchConsumer, error) {
	if handler == nil {
		return nil, fmt.Errorf("batch consumer: message handler is required")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch consumer: batch size must be positive")
	}
	if batchTimeout <= 0 {
		return nil, fmt.Errorf("batch consumer: batch timeout must be positive")
	}
	if cfg.PrefetchCount < batchSize {
		cfg.PrefetchCount = batchSize
	}

	base, err := newBaseConsumer(cfg, connManager)
	if err != nil {
		return nil, fmt.Errorf("batch consumer: %w", err)
	}

	return &BatchConsumer{
		base:         base,
		handler:      handler,
		batchSize:    batchSize,
		batchTimeout: batchTimeout,
	}, nil
}

// StartConsuming регистрирует потребителя и блокируется до отмены ctx или обрыва соединения
func (c *BatchConsumer) StartConsuming(ctx context.Context) error {
	if c.base.channel == nil || c.base.connection.IsClosed() {
		return fmt.Errorf("batch consumer: not connected")
	}

	msgs, err := c.base.channel.Consume(c.base.queueName, c.base.config.ConsumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("batch consumer: failed to register a consumer: %w", err)
	}

	c.base.Logger.Info("Waiting for messages",
		"queue_name", c.base.queueName,
		"batch_size", c.batchSize,
		"batch_timeout", c.batchTimeout.String())

	c.base.wg.Add(1)
	go func() {
		defer c.base.wg.Done()
		collectBatches(ctx, msgs, c.batchSize, c.batchTimeout, func(batch []amqp.Delivery) {
			c.processBatch(ctx, batch)
		})
	}()

	notifyClose := c.base.connection.NotifyClose(make(chan *amqp.Error, 1))

	select {
	case <-ctx.Done():
		c.base.Logger.Info("Context cancelled, consumer stops", "queue_name", c.base.queueName)
		return nil
	case amqpErr := <-notifyClose:
		if amqpErr == nil {
			return nil
		}
		c.base.Logger.Error(amqpErr, "Connection closed for consumer", "queue_name", c.base.queueName)
		return amqpErr
	}
}

// collectBatches отдает в flush накопленные пачки. Последняя неполная пачка
// сбрасывается при отмене контекста или закрытии канала доставок.
func collectBatches(ctx context.Context, msgs <-chan amqp.Delivery, size int, timeout time.Duration, flush func([]amqp.Delivery)) {
	batch := make([]amqp.Delivery, 0, size)
	// с Go 1.23 Stop гарантирует отсутствие устаревшего значения в timer.C
	timer := time.NewTimer(timeout)
	timer.Stop()
	defer timer.Stop()

	emit := func() {
		if len(batch) == 0 {
			return
		}
		flush(batch)
		batch = make([]amqp.Delivery, 0, size)
	}

	for {
		select {
		case <-ctx.Done():
			emit()
			return
		case msg, ok := <-msgs:
			if !ok {
				emit()
				return
			}
			if len(batch) == 0 {
				timer.Reset(timeout)
			}
			batch = append(batch, msg)
			if len(batch) >= size {
				timer.Stop()
				emit()
			}
		case <-timer.C:
			emit()
		}
	}
}

func (c *BatchConsumer) processBatch(ctx context.Context, batch []amqp.Delivery) {
	// на остановке пачка все равно дорабатывается до конца
	handlerCtx := context.WithoutCancel(ctx)

	err := c.handler(handlerCtx, batch)
	lastTag := batch[len(batch)-1].DeliveryTag
	if err == nil {
		if ackErr := c.base.channel.Ack(lastTag, true); ackErr != nil {
			c.base.Logger.Error(ackErr, "Failed to ack batch", "batch_size", len(batch))
			return
		}
		c.base.Logger.Debug("Batch acknowledged", "batch_size", len(batch))
		return
	}

	c.base.Logger.Error(err, "Handler returned error for batch", "batch_size", len(batch))

	if !c.base.config.EnableRetryMechanism {
		_ = c.base.channel.Nack(lastTag, true, false)
		return
	}

	for _, d := range batch {
		c.retryOrDeadLetter(handlerCtx, d)
	}
}

func (c *BatchConsumer) retryOrDeadLetter(ctx context.Context, d amqp.Delivery) {
	deaths := deathCount(d, c.base.queueName)
	if deaths < int64(c.base.config.MaxRetries) {
		c.base.Logger.Info("Nacking message for retry", "delivery_tag", d.DeliveryTag, "death_count", deaths)
		_ = c.base.channel.Nack(d.DeliveryTag, false, false)
		return
	}

	err := c.base.finalDlxPublisher.Publish(ctx, c.base.config.FinalDLQRoutingKey, amqp.Publishing{
		ContentType:  d.ContentType,
		Body:         d.Body,
		Headers:      d.Headers,
		Timestamp:    time.Now(),
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		c.base.Logger.Error(err, "Failed to publish to final DLX, message goes back to retry loop", "delivery_tag", d.DeliveryTag)
		_ = c.base.channel.Nack(d.DeliveryTag, false, false)
		return
	}

	c.base.Logger.Warn("Max retries reached, message moved to final DLQ", "delivery_tag", d.DeliveryTag)
	_ = c.base.channel.Ack(d.DeliveryTag, false)
}

// Close дожидается последней пачки и закрывает канал
func (c *BatchConsumer) Close() error {
	return c.base.Close()
}
