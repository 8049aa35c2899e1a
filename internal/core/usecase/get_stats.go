package usecase

import (
	"context"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"

	"golang.org/x/sync/singleflight"
)

type GetStatsUseCase struct {
	catalog port.CollectionCatalogPort
	cache   port.ResultCache[domain.CollectionStats]
	group   singleflight.Group
}

func NewGetStatsUseCase(catalog port.CollectionCatalogPort, cache port.ResultCache[domain.CollectionStats]) *GetStatsUseCase {
	return &GetStatsUseCase{catalog: catalog, cache: cache}
}

func (uc *GetStatsUseCase) Execute(ctx context.Context, collectionName string) (*domain.CollectionStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "GetStats",
		"collection": collectionName,
	})

	table, err := resolveTable(collectionName)
	if err != nil {
		return nil, err
	}

	if stats, ok := uc.cache.Get(ctx, table); ok {
		return &stats, nil
	}

	v, _, err := doShared(ctx, &uc.group, table, func(ctx context.Context) (interface{}, error) {
		total, err := uc.catalog.CountItems(ctx, table)
		if err != nil {
			return nil, err
		}
		stats := domain.CollectionStats{TotalItems: total}
		uc.cache.Put(ctx, table, stats)
		return stats, nil
	})
	if err != nil {
		ucLogger.Error("Storage returned an error", err, port.Fields{"table": table})
		return nil, err
	}

	stats := v.(domain.CollectionStats)
	ucLogger.Debug("Use case finished successfully", port.Fields{"total_items": stats.TotalItems})
	return &stats, nil
}
