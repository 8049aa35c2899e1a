package usecase

import (
	"context"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

type GetItemsUseCase struct {
	storage    port.ItemStoragePort
	pagination PaginationConfig
}

func NewGetItemsUseCase(storage port.ItemStoragePort, pagination PaginationConfig) *GetItemsUseCase {
	return &GetItemsUseCase{storage: storage, pagination: pagination.normalized()}
}

func (uc *GetItemsUseCase) Execute(ctx context.Context, req domain.ItemsRequest) (*domain.ItemsPage, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "GetItems",
		"collection": req.CollectionName,
	})

	query, err := buildItemsQuery(req, uc.pagination)
	if err != nil {
		ucLogger.Warn("Invalid items request", port.Fields{"error": err.Error()})
		return nil, err
	}

	ucLogger.Debug("Use case started", port.Fields{
		"table":   query.Table,
		"page":    query.Page,
		"limit":   query.Limit,
		"sort":    query.Sort.String(),
		"filters": query.Filters,
	})

	page, err := uc.storage.FindItems(ctx, query)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, port.Fields{"table": query.Table})
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_items":   page.TotalItems,
		"items_on_page": len(page.Items),
	})

	return page, nil
}
