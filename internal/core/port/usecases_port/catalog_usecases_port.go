package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

type GetItemsUseCase interface {
	Execute(ctx context.Context, req domain.ItemsRequest) (*domain.ItemsPage, error)
}

type GetAttributesUseCase interface {
	Execute(ctx context.Context, collectionName string) (domain.AttributeDistribution, error)
}

type GetStatsUseCase interface {
	Execute(ctx context.Context, collectionName string) (*domain.CollectionStats, error)
}

type ListCollectionsUseCase interface {
	Execute(ctx context.Context) ([]domain.CollectionInfo, error)
}

type CheckCollectionUseCase interface {
	Execute(ctx context.Context, collectionName string) (bool, error)
}

type GetCollectionDataUseCase interface {
	Execute(ctx context.Context, req domain.CollectionDataRequest) (*domain.CollectionData, error)
}
