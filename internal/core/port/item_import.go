package port

import (
	"context"

	"catalog-service/internal/core/domain"
)

// ItemImportPort запись предметов из конвейера импорта
type ItemImportPort interface {
	// UpsertItems создает таблицу коллекции при необходимости и вставляет/обновляет строки
	UpsertItems(ctx context.Context, table string, items []domain.ImportedItem) (int, error)
}
