package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Tx is the query surface shared by the pool and an open transaction.
type Tx interface {
	Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ Tx = (*Database)(nil)
	_ Tx = pgx.Tx(nil)
)

type txKey struct{}

// RunInTx calls f with a context carrying a read committed transaction.
// Nested calls join the outer transaction.
func (db *Database) RunInTx(ctx context.Context, f func(context.Context) error) error {
	if txFrom(ctx) != nil {
		return f(ctx)
	}

	err := pgx.BeginTxFunc(ctx, db.p, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return f(context.WithValue(ctx, txKey{}, tx))
	})
	if err != nil {
		return fmt.Errorf("run in tx: %w", err)
	}

	return nil
}

func txFrom(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}

func (db *Database) conn(ctx context.Context) Tx {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}

	return db.p
}
