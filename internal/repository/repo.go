package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/evgeniy-krivenko/notes-query/internal/repository/sqlbuild"
	"github.com/evgeniy-krivenko/notes-query/pkg/database"
)

var dialect = sqlbuild.Postgres

type db interface {
	database.Tx
	RunInTx(ctx context.Context, f func(context.Context) error) error
	Ping(ctx context.Context) error
}

// Repo is the PostgreSQL note store.
type Repo struct {
	db  db
	now func() time.Time
}

func New(db *database.Database) *Repo {
	return &Repo{
		db:  db,
		now: now,
	}
}

// timestamptz keeps microseconds.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (r *Repo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// id column is UUID; other ids cannot exist.
func knownID(id string) bool {
	return uuid.Validate(id) == nil
}
