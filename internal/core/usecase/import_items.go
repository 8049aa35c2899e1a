package usecase

import (
	"context"
	"fmt"
	"sort"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

type ImportItemsUseCase struct {
	storage port.ItemImportPort
}

func NewImportItemsUseCase(storage port.ItemImportPort) *ImportItemsUseCase {
	return &ImportItemsUseCase{storage: storage}
}

// Execute раскладывает пачку по таблицам коллекций и пишет каждую группу.
// Кеши не сбрасываются: новые данные станут видны после истечения TTL.
func (uc *ImportItemsUseCase) Execute(ctx context.Context, items []domain.ImportedItem) (*domain.ImportStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "ImportItems",
		"batch_size": len(items),
	})

	ucLogger.Info("Use case started", nil)

	groups := make(map[string][]domain.ImportedItem)
	for _, item := range items {
		table, err := resolveTable(item.Collection)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", item.ID, err)
		}
		groups[table] = append(groups[table], item)
	}

	tables := make([]string, 0, len(groups))
	for table := range groups {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	stats := &domain.ImportStats{Tables: len(tables)}
	for _, table := range tables {
		n, err := uc.storage.UpsertItems(ctx, table, groups[table])
		if err != nil {
			ucLogger.Error("Storage returned an error", err, port.Fields{"table": table})
			return nil, fmt.Errorf("failed to import items into %s: %w", table, err)
		}
		stats.Upserted += n
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"tables":   stats.Tables,
		"upserted": stats.Upserted,
	})
	return stats, nil
}
