package postgres

import (
	"context"
	"fmt"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CollectionRepository перечень таблиц коллекций в отдельной схеме
type CollectionRepository struct {
	pool   *pgxpool.Pool
	schema string
}

var _ port.CollectionCatalogPort = (*CollectionRepository)(nil)

func NewCollectionRepository(pool *pgxpool.Pool, schema string) (*CollectionRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	if schema == "" {
		return nil, fmt.Errorf("collections schema is required")
	}
	return &CollectionRepository{pool: pool, schema: schema}, nil
}

// ListCollectionTables таблицы схемы, чьи имена заканчиваются на "s"
func (r *CollectionRepository) ListCollectionTables(ctx context.Context) ([]string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "CollectionRepository",
		"method":    "ListCollectionTables",
		"schema":    r.schema,
	})

	const query = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type = 'BASE TABLE'
		  AND table_name LIKE $2
		ORDER BY table_name`

	rows, err := r.pool.Query(ctx, query, r.schema, "%s")
	if err != nil {
		repoLogger.Error("Failed to list collection tables", err, nil)
		return nil, fmt.Errorf("failed to list collection tables: %w", err)
	}
	defer rows.Close()

	tables := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate table names: %w", err)
	}

	repoLogger.Debug("Collection tables listed", port.Fields{"count": len(tables)})
	return tables, nil
}

func (r *CollectionRepository) CountItems(ctx context.Context, table string) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", tableIdentifier(r.schema, table))

	var total int64
	if err := r.pool.QueryRow(ctx, query).Scan(&total); err != nil {
		err = mapQueryError(err, table, "count items")
		contextkeys.LoggerFromContext(ctx).Debug("Count query failed", port.Fields{
			"component": "CollectionRepository",
			"table":     table,
			"error":     err.Error(),
		})
		return 0, err
	}
	return int(total), nil
}
