package usecase

import (
	"fmt"
	"strings"

	"catalog-service/internal/core/domain"
)

const (
	DefaultPageLimit = 12
	MaxPageLimit     = 96
)

// PaginationConfig лимиты страницы. Максимум ограничивает стоимость запроса
// независимо от того, что попросил клиент.
type PaginationConfig struct {
	DefaultLimit int
	MaxLimit     int
}

func (c PaginationConfig) normalized() PaginationConfig {
	if c.MaxLimit <= 0 {
		c.MaxLimit = MaxPageLimit
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = DefaultPageLimit
	}
	if c.DefaultLimit > c.MaxLimit {
		c.DefaultLimit = c.MaxLimit
	}
	return c
}

// resolveTable имя таблицы коллекции или ErrValidation
func resolveTable(collectionName string) (string, error) {
	if strings.TrimSpace(collectionName) == "" {
		return "", fmt.Errorf("%w: collection name is required", domain.ErrValidation)
	}
	table := domain.ResolveTableName(collectionName)
	if table == "s" {
		return "", fmt.Errorf("%w: collection name %q resolves to an empty identifier", domain.ErrValidation, collectionName)
	}
	return table, nil
}

// buildItemsQuery приводит клиентский запрос к запросу хранилища
func buildItemsQuery(req domain.ItemsRequest, cfg PaginationConfig) (domain.ItemsQuery, error) {
	table, err := resolveTable(req.CollectionName)
	if err != nil {
		return domain.ItemsQuery{}, err
	}

	sortOrder, err := domain.ParseSort(req.Sort)
	if err != nil {
		return domain.ItemsQuery{}, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}

	limit := req.Limit
	switch {
	case limit == 0:
		limit = cfg.DefaultLimit
	case limit < 1:
		limit = 1
	case limit > cfg.MaxLimit:
		limit = cfg.MaxLimit
	}

	return domain.ItemsQuery{
		Table:   table,
		Page:    page,
		Limit:   limit,
		Sort:    sortOrder,
		Filters: req.Filters.Normalize(),
	}, nil
}
