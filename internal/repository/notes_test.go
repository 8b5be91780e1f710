package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evgeniy-krivenko/notes-query/internal/entity"
	"github.com/evgeniy-krivenko/notes-query/internal/query"
)

type scanFunc func(dest ...any) error

func (f scanFunc) Scan(dest ...any) error { return f(dest...) }

type call struct {
	sql  string
	args []any
}

type fakeDB struct {
	calls []call
	txs   int

	row     scanFunc
	execTag string
	err     error
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.calls = append(db.calls, call{sql: sql, args: args})
	return pgconn.NewCommandTag(db.execTag), db.err
}

func (db *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.calls = append(db.calls, call{sql: sql, args: args})
	return nil, db.err
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.calls = append(db.calls, call{sql: sql, args: args})
	return db.row
}

func (db *fakeDB) RunInTx(ctx context.Context, f func(context.Context) error) error {
	db.txs++
	return f(ctx)
}

func (db *fakeDB) Ping(context.Context) error { return db.err }

var (
	noteID  = "0190f5a8-7c3e-7d1a-9b2e-3f4a5b6c7d8e"
	created = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	updated = created.Add(time.Hour)
)

func storedRow(dest ...any) error {
	values := []any{noteID, "Title", "Content", "Work", created, created}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = values[i].(string)
		case *time.Time:
			*p = values[i].(time.Time)
		}
	}
	return nil
}

func newRepo(db *fakeDB) *Repo {
	return &Repo{db: db, now: func() time.Time { return updated }}
}

func TestUnknownIDsNeverReachDatabase(t *testing.T) {
	db := &fakeDB{}
	r := newRepo(db)
	ctx := context.Background()

	_, err := r.GetNote(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, entity.ErrNoteNotFound)

	_, err = r.UpdateNote(ctx, "not-a-uuid", entity.NotePatch{})
	assert.ErrorIs(t, err, entity.ErrNoteNotFound)

	assert.ErrorIs(t, r.DeleteNote(ctx, "42"), entity.ErrNoteNotFound)
	assert.Empty(t, db.calls)
}

func TestGetNote(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := &fakeDB{row: storedRow}

		n, err := newRepo(db).GetNote(context.Background(), noteID)
		require.NoError(t, err)
		assert.Equal(t, entity.Note{
			ID: noteID, Title: "Title", Content: "Content", Category: "Work",
			CreatedAt: created, UpdatedAt: created,
		}, n)
		assert.Equal(t, []any{noteID}, db.calls[0].args)
	})

	t.Run("missing", func(t *testing.T) {
		db := &fakeDB{row: func(...any) error { return pgx.ErrNoRows }}

		_, err := newRepo(db).GetNote(context.Background(), noteID)
		assert.ErrorIs(t, err, entity.ErrNoteNotFound)
	})

	t.Run("failure is not a miss", func(t *testing.T) {
		db := &fakeDB{row: func(...any) error { return errors.New("conn reset") }}

		_, err := newRepo(db).GetNote(context.Background(), noteID)
		require.Error(t, err)
		assert.NotErrorIs(t, err, entity.ErrNoteNotFound)
	})
}

func TestUpdateNoteLocksAndKeepsCreation(t *testing.T) {
	db := &fakeDB{row: storedRow, execTag: "UPDATE 1"}
	category := "Study"

	n, err := newRepo(db).UpdateNote(context.Background(), noteID, entity.NotePatch{Category: &category})
	require.NoError(t, err)

	assert.Equal(t, 1, db.txs)
	require.Len(t, db.calls, 2)
	assert.Contains(t, db.calls[0].sql, "FOR UPDATE")
	assert.Contains(t, db.calls[1].sql, "UPDATE notes SET")

	assert.Equal(t, "Study", n.Category)
	assert.Equal(t, "Title", n.Title)
	assert.Equal(t, created, n.CreatedAt)
	assert.Equal(t, updated, n.UpdatedAt)
}

func TestDeleteNote(t *testing.T) {
	db := &fakeDB{execTag: "DELETE 1"}
	require.NoError(t, newRepo(db).DeleteNote(context.Background(), noteID))

	db = &fakeDB{execTag: "DELETE 0"}
	assert.ErrorIs(t, newRepo(db).DeleteNote(context.Background(), noteID), entity.ErrNoteNotFound)
}

func TestCountNotesSharesFilter(t *testing.T) {
	db := &fakeDB{row: func(dest ...any) error {
		*dest[0].(*int64) = 7
		return nil
	}}

	total, err := newRepo(db).CountNotes(context.Background(), query.NewFilter("Work", "50%"))
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)

	assert.Contains(t, db.calls[0].sql, "ILIKE")
	assert.Contains(t, db.calls[0].args, `%50\%%`)
}

func TestCreateNoteAssignsIDAndTimes(t *testing.T) {
	db := &fakeDB{execTag: "INSERT 0 1"}

	n, err := newRepo(db).CreateNote(context.Background(), entity.NoteInput{Title: "a", Content: "b", Category: "c"})
	require.NoError(t, err)

	assert.True(t, knownID(n.ID))
	assert.Equal(t, updated, n.CreatedAt)
	assert.Equal(t, n.CreatedAt, n.UpdatedAt)
	assert.Contains(t, db.calls[0].sql, "INSERT INTO notes")
}
