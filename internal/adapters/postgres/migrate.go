package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations применяет служебные миграции (таблица referrals).
// Пул не закрывается: *sql.DB поверх пула только одалживает соединения.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		src.Close()
		db.Close()
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		src.Close()
		driver.Close()
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	// migrate не принимает контекст, остановка через GracefulStop
	done := make(chan error, 1)
	go func() { done <- m.Up() }()

	select {
	case err = <-done:
	case <-ctx.Done():
		m.GracefulStop <- true
		err = <-done
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// EnsureCollectionsSchema имя схемы настраивается, поэтому она создается кодом, а не миграцией
func EnsureCollectionsSchema(ctx context.Context, pool *pgxpool.Pool, schema string) error {
	if schema == "" {
		return fmt.Errorf("collections schema is required")
	}
	ddl := "CREATE SCHEMA IF NOT EXISTS " + pgx.Identifier{schema}.Sanitize()
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create collections schema: %w", err)
	}
	return nil
}
