package usecase

import (
	"context"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/port/usecases_port"

	"golang.org/x/sync/errgroup"
)

// GetCollectionDataUseCase страница, распределение атрибутов и статистика за один вызов
type GetCollectionDataUseCase struct {
	items      usecases_port.GetItemsUseCase
	attributes usecases_port.GetAttributesUseCase
	stats      usecases_port.GetStatsUseCase
}

func NewGetCollectionDataUseCase(
	items usecases_port.GetItemsUseCase,
	attributes usecases_port.GetAttributesUseCase,
	stats usecases_port.GetStatsUseCase,
) *GetCollectionDataUseCase {
	return &GetCollectionDataUseCase{items: items, attributes: attributes, stats: stats}
}

// Execute три выборки независимы, поэтому идут параллельно.
// Первая ошибка отменяет остальные через контекст.
func (uc *GetCollectionDataUseCase) Execute(ctx context.Context, req domain.CollectionDataRequest) (*domain.CollectionData, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":           "GetCollectionData",
		"collection":         req.CollectionName,
		"include_attributes": req.IncludeAttributes,
	})

	if _, err := resolveTable(req.CollectionName); err != nil {
		return nil, err
	}

	var (
		page  *domain.ItemsPage
		attrs domain.AttributeDistribution
		stats *domain.CollectionStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = uc.items.Execute(gctx, req.ItemsRequest)
		return err
	})
	if req.IncludeAttributes {
		g.Go(func() error {
			var err error
			attrs, err = uc.attributes.Execute(gctx, req.CollectionName)
			return err
		})
	}
	g.Go(func() error {
		var err error
		stats, err = uc.stats.Execute(gctx, req.CollectionName)
		return err
	})

	if err := g.Wait(); err != nil {
		ucLogger.Error("Composite query failed", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_items": page.TotalItems,
		"page":        page.Page,
	})

	return &domain.CollectionData{
		GiftName:   req.CollectionName,
		Page:       page,
		Attributes: attrs,
		Stats:      *stats,
	}, nil
}
