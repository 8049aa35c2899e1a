package usecase

import (
	"context"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"

	"golang.org/x/sync/singleflight"
)

// DefaultPriorityTraits трейты, по которым строится распределение
var DefaultPriorityTraits = []string{"Model", "Backdrop", "Symbol"}

type GetAttributesUseCase struct {
	storage  port.ItemStoragePort
	cache    port.ResultCache[domain.AttributeDistribution]
	priority []string
	group    singleflight.Group
}

func NewGetAttributesUseCase(storage port.ItemStoragePort, cache port.ResultCache[domain.AttributeDistribution], priority []string) *GetAttributesUseCase {
	if len(priority) == 0 {
		priority = DefaultPriorityTraits
	}
	return &GetAttributesUseCase{storage: storage, cache: cache, priority: priority}
}

// Execute распределение считается по всей коллекции без фильтров
func (uc *GetAttributesUseCase) Execute(ctx context.Context, collectionName string) (domain.AttributeDistribution, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "GetAttributes",
		"collection": collectionName,
	})

	table, err := resolveTable(collectionName)
	if err != nil {
		return nil, err
	}

	if dist, ok := uc.cache.Get(ctx, table); ok {
		ucLogger.Debug("Attributes served from cache", port.Fields{"table": table})
		return dist, nil
	}

	// одновременные промахи по одной коллекции делят одно сканирование
	v, shared, err := doShared(ctx, &uc.group, table, func(ctx context.Context) (interface{}, error) {
		tally := domain.NewAttributeTally()
		rows, err := uc.storage.ScanAttributes(ctx, table, tally.Add)
		if err != nil {
			return nil, err
		}
		dist := tally.Distribution(uc.priority)
		uc.cache.Put(ctx, table, dist)

		ucLogger.Info("Attribute distribution computed", port.Fields{
			"table":        table,
			"scanned_rows": rows,
			"traits":       len(dist),
		})
		return dist, nil
	})
	if err != nil {
		ucLogger.Error("Storage returned an error", err, port.Fields{"table": table})
		return nil, err
	}
	if shared {
		ucLogger.Debug("Attribute scan shared with concurrent request", port.Fields{"table": table})
	}

	return v.(domain.AttributeDistribution), nil
}
