package constants

// Обменники и очереди импорта предметов
const (
	ExchangeGiftItems       = "gift_items_exchange"
	QueueGiftItemsImport    = "gift_items_import_queue"
	RoutingKeyGiftItemsSave = "gift.items.import"
)

// Цикл ретраев и финальный DLQ
const (
	RetryExchange      = "gift_items_import_retry_exchange"
	RetryQueue         = "gift_items_import_retry_queue"
	RetryTTLMillis     = 10000
	MaxImportRetries   = 3
	FinalDLXExchange   = "gift_items_import_final_dlx"
	FinalDLQ           = "gift_items_import_final_dlq"
	FinalDLQRoutingKey = "gift.items.dlq"
)

// Заголовки сообщений
const (
	HeaderEventType    = "event-type"
	HeaderEventVersion = "event-version"
	HeaderTraceID      = "x-trace-id"

	EventGiftItemImported        = "GiftItemImportedEvent"
	EventGiftItemImportedVersion = "1.0.0"
)
