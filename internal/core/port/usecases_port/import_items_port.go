package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

type ImportItemsUseCase interface {
	Execute(ctx context.Context, items []domain.ImportedItem) (*domain.ImportStats, error)
}
