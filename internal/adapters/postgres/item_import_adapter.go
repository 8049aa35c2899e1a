package postgres

import (
	"context"
	"fmt"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ItemImportAdapter запись предметов конвейера импорта в таблицы коллекций
type ItemImportAdapter struct {
	pool   *pgxpool.Pool
	schema string
}

var _ port.ItemImportPort = (*ItemImportAdapter)(nil)

func NewItemImportAdapter(pool *pgxpool.Pool, schema string) (*ItemImportAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	if schema == "" {
		return nil, fmt.Errorf("collections schema is required")
	}
	return &ItemImportAdapter{pool: pool, schema: schema}, nil
}

func createCollectionTableSQL(schema, table string) []string {
	ident := tableIdentifier(schema, table)
	index := pgx.Identifier{table + "_attributes_gin"}.Sanitize()
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id          BIGINT PRIMARY KEY,
			base_name   TEXT NOT NULL,
			description TEXT,
			image       TEXT,
			lottie      TEXT,
			attributes  JSONB NOT NULL DEFAULT '[]'::jsonb,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, ident),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s USING GIN (attributes jsonb_path_ops)", index, ident),
	}
}

func upsertItemSQL(schema, table string) string {
	return fmt.Sprintf(`
		INSERT INTO %s (id, base_name, description, image, lottie, attributes, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, now())
		ON CONFLICT (id) DO UPDATE SET
			base_name   = EXCLUDED.base_name,
			description = EXCLUDED.description,
			image       = EXCLUDED.image,
			lottie      = EXCLUDED.lottie,
			attributes  = EXCLUDED.attributes,
			updated_at  = now()`, tableIdentifier(schema, table))
}

// UpsertItems все строки одной таблицы пишутся в одной транзакции
func (a *ItemImportAdapter) UpsertItems(ctx context.Context, table string, items []domain.ImportedItem) (int, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "ItemImportAdapter",
		"method":    "UpsertItems",
		"table":     table,
		"items":     len(items),
	})

	if len(items) == 0 {
		return 0, nil
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, ddl := range createCollectionTableSQL(a.schema, table) {
		if _, err := tx.Exec(ctx, ddl); err != nil {
			repoLogger.Error("Failed to ensure collection table", err, nil)
			return 0, fmt.Errorf("failed to ensure table %s: %w", table, err)
		}
	}

	upsert := upsertItemSQL(a.schema, table)
	batch := &pgx.Batch{}
	for _, item := range items {
		attrs, err := encodeAttributes(item.Attributes)
		if err != nil {
			return 0, fmt.Errorf("failed to encode attributes of item %d: %w", item.ID, err)
		}
		batch.Queue(upsert, item.ID, item.BaseName(table), item.Description, item.Image, item.Lottie, attrs)
	}

	br := tx.SendBatch(ctx, batch)
	for _, item := range items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			repoLogger.Error("Failed to upsert item", err, port.Fields{"item_id": item.ID})
			return 0, fmt.Errorf("failed to upsert item %d: %w", item.ID, err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Info("Items upserted", nil)
	return len(items), nil
}
