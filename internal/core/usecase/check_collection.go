package usecase

import (
	"context"
	"errors"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

type CheckCollectionUseCase struct {
	catalog port.CollectionCatalogPort
}

func NewCheckCollectionUseCase(catalog port.CollectionCatalogPort) *CheckCollectionUseCase {
	return &CheckCollectionUseCase{catalog: catalog}
}

// Execute true, если в коллекции есть хотя бы один предмет.
// Отсутствующая таблица не ошибка, а просто false.
func (uc *CheckCollectionUseCase) Execute(ctx context.Context, collectionName string) (bool, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "CheckCollection",
		"collection": collectionName,
	})

	table, err := resolveTable(collectionName)
	if err != nil {
		return false, err
	}

	total, err := uc.catalog.CountItems(ctx, table)
	if errors.Is(err, domain.ErrCollectionNotFound) {
		return false, nil
	}
	if err != nil {
		ucLogger.Error("Storage returned an error", err, port.Fields{"table": table})
		return false, err
	}

	return total > 0, nil
}
