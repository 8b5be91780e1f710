package repository

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/evgeniy-krivenko/notes-query/internal/repository/migrator"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := migrator.Up(ctx, db, "postgres", migrations); err != nil {
		return fmt.Errorf("migrate postgres: %v", err)
	}

	return nil
}
