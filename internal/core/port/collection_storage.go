package port

import (
	"context"
)

// CollectionCatalogPort перечень коллекций и их размеры
type CollectionCatalogPort interface {
	ListCollectionTables(ctx context.Context) ([]string, error)
	CountItems(ctx context.Context, table string) (int, error)
}
