package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-service/internal/constants"
	"catalog-service/internal/contextkeys"
	"catalog-service/internal/contracts"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/port/usecases_port"
	"catalog-service/pkg/rabbitmq/rabbitmq_common"
	"catalog-service/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ItemImportConsumerAdapter входящий адаптер: слушает очередь импорта
// и передает пачки предметов в ImportItemsUseCase
type ItemImportConsumerAdapter struct {
	consumer rabbitmq_consumer.Consumer
	useCase  usecases_port.ImportItemsUseCase
	logger   port.LoggerPort
}

var _ port.EventListenerPort = (*ItemImportConsumerAdapter)(nil)

// ImportConsumerConfig топология по умолчанию для очереди импорта
func ImportConsumerConfig(url string) rabbitmq_consumer.ConsumerConfig {
	return rabbitmq_consumer.ConsumerConfig{
		Config:                 rabbitmq_common.Config{URL: url},
		QueueName:              constants.QueueGiftItemsImport,
		DeclareQueue:           true,
		DurableQueue:           true,
		ExchangeNameForBind:    constants.ExchangeGiftItems,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    "direct",
		DurableExchangeForBind: true,
		RoutingKeyForBind:      constants.RoutingKeyGiftItemsSave,
		ConsumerTag:            "catalog_service_item_importer",
		EnableRetryMechanism:   true,
		RetryExchange:          constants.RetryExchange,
		RetryQueue:             constants.RetryQueue,
		RetryTTL:               constants.RetryTTLMillis,
		FinalDLXExchange:       constants.FinalDLXExchange,
		FinalDLQ:               constants.FinalDLQ,
		FinalDLQRoutingKey:     constants.FinalDLQRoutingKey,
		MaxRetries:             constants.MaxImportRetries,
	}
}

func NewItemImportConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	useCase usecases_port.ImportItemsUseCase,
	batchSize int,
	batchTimeout time.Duration,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*ItemImportConsumerAdapter, error) {
	adapter := &ItemImportConsumerAdapter{
		useCase: useCase,
		logger:  logger,
	}

	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_batch_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewBatchConsumer(consumerCfg, adapter.batchMessageHandler, batchSize, batchTimeout, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for item import: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

// Start блокируется до отмены ctx или потери соединения
func (a *ItemImportConsumerAdapter) Start(ctx context.Context) error {
	a.logger.Info("Starting item import consumer", port.Fields{"queue": constants.QueueGiftItemsImport})
	return a.consumer.StartConsuming(ctx)
}

func (a *ItemImportConsumerAdapter) Close() error {
	a.logger.Info("Closing item import consumer", nil)
	return a.consumer.Close()
}

// batchMessageHandler одно плохое сообщение возвращает в ретраи всю пачку
func (a *ItemImportConsumerAdapter) batchMessageHandler(ctx context.Context, deliveries []amqp.Delivery) error {
	if len(deliveries) == 0 {
		return nil
	}

	traceID, _ := deliveries[0].Headers[constants.HeaderTraceID].(string)
	if traceID == "" {
		traceID = uuid.New().String()
	}
	batchID := uuid.New().String()

	batchLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"batch_id":     batchID,
		"batch_size":   len(deliveries),
		"adapter_name": "ItemImportConsumerAdapter",
	})

	ctx = contextkeys.ContextWithLogger(ctx, batchLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	batchLogger.Info("Received batch of messages to process.", nil)

	items, err := a.decodeBatch(deliveries, batchLogger)
	if err != nil {
		return err
	}

	stats, err := a.useCase.Execute(ctx, items)
	if err != nil {
		batchLogger.Error("Import failed, the entire batch will be retried.", err, nil)
		return err
	}

	batchLogger.Info("Batch processed successfully.", port.Fields{
		"tables":   stats.Tables,
		"upserted": stats.Upserted,
	})
	return nil
}

func (a *ItemImportConsumerAdapter) decodeBatch(deliveries []amqp.Delivery, logger port.LoggerPort) ([]domain.ImportedItem, error) {
	items := make([]domain.ImportedItem, 0, len(deliveries))
	for _, d := range deliveries {
		item, err := unmarshalItem(d)
		if err != nil {
			logger.Error("Message rejected.", err, port.Fields{
				"message_id":        d.MessageId,
				"original_trace_id": d.Headers[constants.HeaderTraceID],
			})
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// unmarshalItem проверка по схеме, затем разбор в DTO
func unmarshalItem(d amqp.Delivery) (domain.ImportedItem, error) {
	eventType, _ := d.Headers[constants.HeaderEventType].(string)
	eventVersion, _ := d.Headers[constants.HeaderEventVersion].(string)
	if eventType != constants.EventGiftItemImported {
		return domain.ImportedItem{}, fmt.Errorf("unexpected event type %q", eventType)
	}
	if err := contracts.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		return domain.ImportedItem{}, err
	}

	var dto GiftItemImportedDTO
	if err := json.Unmarshal(d.Body, &dto); err != nil {
		return domain.ImportedItem{}, fmt.Errorf("failed to unmarshal %s: %w", eventType, err)
	}
	return toDomainImportedItem(&dto), nil
}
