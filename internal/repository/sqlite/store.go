// Package sqlite is the embedded note store backed by modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	msqlite "modernc.org/sqlite"

	"github.com/evgeniy-krivenko/notes-query/internal/entity"
	"github.com/evgeniy-krivenko/notes-query/internal/query"
	"github.com/evgeniy-krivenko/notes-query/internal/repository/migrator"
	"github.com/evgeniy-krivenko/notes-query/internal/repository/sqlbuild"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Timestamps are stored as unix nanoseconds so ordering is numeric.
// LIKE folds ASCII only, so both operands go through fold first.
var dialect = sqlbuild.Dialect{
	Name:     "sqlite",
	Format:   sq.Question,
	Like:     "LIKE",
	Fold:     func(expr string) string { return "fold(" + expr + ")" },
	TimeArg:  func(t time.Time) any { return t.UnixNano() },
	TimeDest: func(t *time.Time) any { return &unixNanos{t: t} },
}

func init() {
	msqlite.MustRegisterDeterministicScalarFunction("fold", 1, fold)
}

// fold lower-cases text with Unicode rules.
func fold(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	}

	return args[0], nil
}

type unixNanos struct {
	t *time.Time
}

func (u *unixNanos) Scan(src any) error {
	v, ok := src.(int64)
	if !ok {
		return fmt.Errorf("scan timestamp: unexpected type %T", src)
	}

	*u.t = time.Unix(0, v).UTC()
	return nil
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// One writer, and an in-memory database lives on a single connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	if err := migrator.Up(ctx, db, "sqlite3", migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	return New(db), nil
}

// New wraps an already migrated database.
func New(db *sql.DB) *Store {
	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) FindNotes(
	ctx context.Context,
	f query.Filter,
	o query.Order,
	w query.Window,
	p query.Projection,
) ([]entity.Note, error) {
	stmt, fields, err := sqlbuild.Find(dialect, f, o, w, p)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("find notes: %w", err)
	}
	defer rows.Close()

	notes := make([]entity.Note, 0, w.Limit)
	for rows.Next() {
		var n entity.Note
		if err := rows.Scan(sqlbuild.Dests(dialect, &n, fields)...); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}

	return notes, nil
}

func (s *Store) CountNotes(ctx context.Context, f query.Filter) (int64, error) {
	stmt, err := sqlbuild.Count(dialect, f)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, stmt.SQL, stmt.Args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}

	return total, nil
}

func (s *Store) DistinctCategories(ctx context.Context) ([]string, error) {
	stmt, err := sqlbuild.DistinctCategories(dialect)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (s *Store) CountByCategory(ctx context.Context) ([]entity.CategoryCount, error) {
	stmt, err := sqlbuild.CountByCategory(dialect)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	defer rows.Close()

	counts := make([]entity.CategoryCount, 0)
	for rows.Next() {
		var c entity.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

func (s *Store) CreateNote(ctx context.Context, in entity.NoteInput) (entity.Note, error) {
	id, err := entity.NewNoteID()
	if err != nil {
		return entity.Note{}, err
	}

	ts := s.now()
	note := entity.Note{
		ID:        id,
		Title:     in.Title,
		Content:   in.Content,
		Category:  in.Category,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	stmt, err := sqlbuild.Insert(dialect, note)
	if err != nil {
		return entity.Note{}, err
	}

	if _, err := s.db.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
		return entity.Note{}, fmt.Errorf("create note: %w", err)
	}

	return note, nil
}

func (s *Store) GetNote(ctx context.Context, id string) (entity.Note, error) {
	return s.getNote(ctx, s.db, id)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) getNote(ctx context.Context, q queryRower, id string) (entity.Note, error) {
	stmt, err := sqlbuild.Get(dialect, id)
	if err != nil {
		return entity.Note{}, err
	}

	var n entity.Note
	err = q.QueryRowContext(ctx, stmt.SQL, stmt.Args...).Scan(sqlbuild.Dests(dialect, &n, query.Schema)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Note{}, entity.ErrNoteNotFound
		}
		return entity.Note{}, fmt.Errorf("get note: %w", err)
	}

	return n, nil
}

func (s *Store) UpdateNote(ctx context.Context, id string, patch entity.NotePatch) (entity.Note, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return entity.Note{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	n, err := s.getNote(ctx, tx, id)
	if err != nil {
		return entity.Note{}, err
	}

	n = patch.ApplyTo(n)
	n.UpdatedAt = s.now()

	stmt, err := sqlbuild.Update(dialect, n)
	if err != nil {
		return entity.Note{}, err
	}

	if _, err := tx.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
		return entity.Note{}, fmt.Errorf("update note: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return entity.Note{}, fmt.Errorf("commit update: %w", err)
	}

	return n, nil
}

func (s *Store) DeleteNote(ctx context.Context, id string) error {
	stmt, err := sqlbuild.Delete(dialect, id)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	if affected == 0 {
		return entity.ErrNoteNotFound
	}

	return nil
}
