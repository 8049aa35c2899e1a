package usecase

import (
	"context"
	"fmt"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"

	"golang.org/x/sync/singleflight"
)

const collectionsCacheKey = "all"

type ListCollectionsUseCase struct {
	catalog port.CollectionCatalogPort
	cache   port.ResultCache[[]domain.CollectionInfo]
	group   singleflight.Group
}

func NewListCollectionsUseCase(catalog port.CollectionCatalogPort, cache port.ResultCache[[]domain.CollectionInfo]) *ListCollectionsUseCase {
	return &ListCollectionsUseCase{catalog: catalog, cache: cache}
}

// Execute порядок коллекций определяется хранилищем
func (uc *ListCollectionsUseCase) Execute(ctx context.Context) ([]domain.CollectionInfo, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "ListCollections"})

	if list, ok := uc.cache.Get(ctx, collectionsCacheKey); ok {
		return list, nil
	}

	v, _, err := doShared(ctx, &uc.group, collectionsCacheKey, func(ctx context.Context) (interface{}, error) {
		tables, err := uc.catalog.ListCollectionTables(ctx)
		if err != nil {
			return nil, err
		}

		list := make([]domain.CollectionInfo, 0, len(tables))
		for _, table := range tables {
			total, err := uc.catalog.CountItems(ctx, table)
			if err != nil {
				return nil, fmt.Errorf("failed to count items of %s: %w", table, err)
			}
			list = append(list, domain.CollectionInfo{
				Name:  domain.DisplayNameFromTable(table),
				Table: table,
				Total: total,
			})
		}

		uc.cache.Put(ctx, collectionsCacheKey, list)
		return list, nil
	})
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	list := v.([]domain.CollectionInfo)
	ucLogger.Info("Use case finished successfully", port.Fields{"collections": len(list)})
	return list, nil
}
