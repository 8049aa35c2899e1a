package port

import (
	"context"

	"catalog-service/internal/core/domain"
)

// ItemStoragePort чтение предметов одной коллекции
type ItemStoragePort interface {
	// FindItems страница предметов и общее число совпадений по фильтрам
	FindItems(ctx context.Context, query domain.ItemsQuery) (*domain.ItemsPage, error)
	// ScanAttributes обходит атрибуты всех строк таблицы без фильтров,
	// visit вызывается на каждую строку. Возвращает число строк.
	ScanAttributes(ctx context.Context, table string, visit func([]domain.Attribute)) (int, error)
}
