package postgres

import (
	"errors"
	"fmt"

	"catalog-service/internal/core/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUndefinedTable = "42P01"
	pgInvalidSchema  = "3F000"
)

// mapQueryError отсутствующая таблица коллекции превращается в ErrCollectionNotFound
func mapQueryError(err error, table, action string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == pgUndefinedTable || pgErr.Code == pgInvalidSchema) {
		return fmt.Errorf("table %q: %w", table, domain.ErrCollectionNotFound)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
