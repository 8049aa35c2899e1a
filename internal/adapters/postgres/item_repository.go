package postgres

import (
	"context"
	"fmt"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

const itemColumns = "t.id, COALESCE(t.base_name, ''), COALESCE(t.description, ''), " +
	"COALESCE(t.image, ''), COALESCE(t.lottie, ''), t.attributes"

// ItemRepository чтение предметов из таблиц коллекций
type ItemRepository struct {
	pool   *pgxpool.Pool
	schema string
}

var _ port.ItemStoragePort = (*ItemRepository)(nil)

func NewItemRepository(pool *pgxpool.Pool, schema string) (*ItemRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ItemRepository{pool: pool, schema: schema}, nil
}

// FindItems COUNT и страница выполняются двумя независимыми запросами,
// между ними возможен небольшой рассинхрон при конкурентной записи.
func (r *ItemRepository) FindItems(ctx context.Context, q domain.ItemsQuery) (*domain.ItemsPage, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "ItemRepository",
		"method":    "FindItems",
		"table":     q.Table,
		"page":      q.Page,
		"limit":     q.Limit,
	})

	table := tableIdentifier(r.schema, q.Table)
	whereClause, args := applyFilters(q.Filters)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s t %s", table, whereClause)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		err = mapQueryError(err, q.Table, "count items")
		repoLogger.Error("Failed to count items with filters", err, port.Fields{"query": countQuery})
		return nil, err
	}

	result := &domain.ItemsPage{
		Items:      []domain.Item{},
		TotalItems: int(total),
		Page:       q.Page,
		TotalPages: domain.TotalPagesFor(int(total), q.Limit),
	}

	// за пределами выборки второй запрос не нужен
	if total == 0 || q.Offset() >= int(total) {
		return result, nil
	}

	dataQuery := fmt.Sprintf("SELECT %s FROM %s t %s %s LIMIT $%d OFFSET $%d",
		itemColumns, table, whereClause, orderByClause(q.Sort), len(args)+1, len(args)+2)
	pageArgs := append(args, q.Limit, q.Offset())

	rows, err := r.pool.Query(ctx, dataQuery, pageArgs...)
	if err != nil {
		err = mapQueryError(err, q.Table, "find items")
		repoLogger.Error("Failed to find items with filters", err, port.Fields{"query": dataQuery})
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Item, 0, q.Limit)
	for rows.Next() {
		var (
			item domain.Item
			raw  []byte
		)
		if err := rows.Scan(&item.ID, &item.BaseName, &item.Description, &item.Image, &item.Lottie, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}

		attrs, err := decodeAttributes(raw)
		if err != nil {
			repoLogger.Warn("Failed to parse item attributes", port.Fields{"item_id": item.ID, "error": err.Error()})
		}
		item.Attributes = attrs
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapQueryError(err, q.Table, "iterate items")
	}

	result.Items = items
	repoLogger.Debug("Successfully found items for page", port.Fields{"total": total, "count": len(items)})
	return result, nil
}

// ScanAttributes полный проход по колонке attributes без фильтров
func (r *ItemRepository) ScanAttributes(ctx context.Context, table string, visit func([]domain.Attribute)) (int, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "ItemRepository",
		"method":    "ScanAttributes",
		"table":     table,
	})

	query := fmt.Sprintf("SELECT t.id, t.attributes FROM %s t", tableIdentifier(r.schema, table))
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		err = mapQueryError(err, table, "scan attributes")
		repoLogger.Error("Failed to scan attributes", err, nil)
		return 0, err
	}
	defer rows.Close()

	scanned, malformed := 0, 0
	for rows.Next() {
		var (
			id  int64
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return scanned, fmt.Errorf("failed to scan attributes row: %w", err)
		}
		scanned++

		attrs, err := decodeAttributes(raw)
		if err != nil {
			malformed++
			repoLogger.Warn("Failed to parse item attributes", port.Fields{"item_id": id, "error": err.Error()})
		}
		visit(attrs)
	}
	if err := rows.Err(); err != nil {
		return scanned, mapQueryError(err, table, "iterate attributes")
	}

	repoLogger.Debug("Attributes scanned", port.Fields{"rows": scanned, "malformed": malformed})
	return scanned, nil
}
