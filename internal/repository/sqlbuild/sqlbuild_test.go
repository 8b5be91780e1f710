package sqlbuild_test

import (
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evgeniy-krivenko/notes-query/internal/entity"
	"github.com/evgeniy-krivenko/notes-query/internal/query"
	"github.com/evgeniy-krivenko/notes-query/internal/repository/sqlbuild"
)

func TestFind(t *testing.T) {
	tests := []struct {
		name   string
		q      query.Params
		sql    string
		args   []any
		fields []query.Field
	}{
		{
			name:   "no filter",
			q:      query.Params{},
			sql:    "SELECT id, title, content, category, created_at, updated_at FROM notes ORDER BY created_at DESC, id DESC LIMIT 10 OFFSET 0",
			args:   nil,
			fields: query.Schema,
		},
		{
			name:   "category only",
			q:      query.Params{Category: "Work", Sort: "asc", Page: "3", Limit: "2"},
			sql:    "SELECT id, title, content, category, created_at, updated_at FROM notes WHERE category = $1 ORDER BY created_at ASC, id ASC LIMIT 2 OFFSET 4",
			args:   []any{"Work"},
			fields: query.Schema,
		},
		{
			name: "category search and projection",
			q:    query.Params{Category: "Work", Search: "50%_off", Fields: "title"},
			sql: "SELECT id, title FROM notes WHERE category = $1 AND " +
				`(title ILIKE $2 ESCAPE '\' OR content ILIKE $3 ESCAPE '\')` +
				" ORDER BY created_at DESC, id DESC LIMIT 10 OFFSET 0",
			args:   []any{"Work", `%50\%\_off%`, `%50\%\_off%`},
			fields: []query.Field{query.FieldID, query.FieldTitle},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := query.Build(tt.q, query.DefaultDefaults())
			stmt, fields, err := sqlbuild.Find(sqlbuild.Postgres, q.Filter, q.Order, q.Page.Window(), q.Projection)
			require.NoError(t, err)

			assert.Equal(t, tt.sql, stmt.SQL)
			if tt.args == nil {
				assert.Empty(t, stmt.Args)
			} else {
				assert.Equal(t, tt.args, stmt.Args)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestFindHugeOffset(t *testing.T) {
	q := query.Build(query.Params{Page: "922337203685477583", Limit: "10"}, query.DefaultDefaults())

	stmt, _, err := sqlbuild.Find(sqlbuild.Postgres, q.Filter, q.Order, q.Page.Window(), q.Projection)
	require.NoError(t, err)
	assert.Contains(t, stmt.SQL, "LIMIT 10 OFFSET 9223372036854775790")

	stmt, _, err = sqlbuild.Find(sqlbuild.Postgres, query.Filter{}, query.Order{}, query.Window{Offset: -1, Limit: 5}, query.Projection{})
	require.NoError(t, err)
	assert.Contains(t, stmt.SQL, "LIMIT 5 OFFSET 0")
}

func TestCountUsesSamePredicate(t *testing.T) {
	f := query.NewFilter("Study", "go")
	stmt, err := sqlbuild.Count(sqlbuild.Postgres, f)
	require.NoError(t, err)

	assert.Equal(t,
		`SELECT COUNT(*) FROM notes WHERE category = $1 AND (title ILIKE $2 ESCAPE '\' OR content ILIKE $3 ESCAPE '\')`,
		stmt.SQL,
	)
	assert.Equal(t, []any{"Study", "%go%", "%go%"}, stmt.Args)
}

func TestFoldWrapsBothOperands(t *testing.T) {
	d := sqlbuild.Dialect{
		Name:   "sqlite",
		Format: sq.Question,
		Like:   "LIKE",
		Fold:   func(expr string) string { return "fold(" + expr + ")" },
	}

	stmt, err := sqlbuild.Count(d, query.NewFilter("", "É"))
	require.NoError(t, err)

	assert.Equal(t,
		`SELECT COUNT(*) FROM notes WHERE (fold(title) LIKE fold(?) ESCAPE '\' OR fold(content) LIKE fold(?) ESCAPE '\')`,
		stmt.SQL,
	)
	assert.Equal(t, []any{"%É%", "%É%"}, stmt.Args)
}

func TestAggregates(t *testing.T) {
	stmt, err := sqlbuild.DistinctCategories(sqlbuild.Postgres)
	require.NoError(t, err)
	assert.Equal(t, "SELECT DISTINCT category FROM notes ORDER BY category", stmt.SQL)

	stmt, err = sqlbuild.CountByCategory(sqlbuild.Postgres)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT category, COUNT(*) AS cnt FROM notes GROUP BY category ORDER BY cnt DESC, category ASC",
		stmt.SQL,
	)
}

func TestMutations(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	n := entity.Note{ID: "id-1", Title: "t", Content: "c", Category: "k", CreatedAt: now, UpdatedAt: now}

	ins, err := sqlbuild.Insert(sqlbuild.Postgres, n)
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO notes (id,title,content,category,created_at,updated_at) VALUES ($1,$2,$3,$4,$5,$6)",
		ins.SQL,
	)
	assert.Equal(t, []any{"id-1", "t", "c", "k", now, now}, ins.Args)

	upd, err := sqlbuild.Update(sqlbuild.Postgres, n)
	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE notes SET title = $1, content = $2, category = $3, updated_at = $4 WHERE id = $5",
		upd.SQL,
	)
	assert.Equal(t, []any{"t", "c", "k", now, "id-1"}, upd.Args)

	get, err := sqlbuild.GetForUpdate(sqlbuild.Postgres, "id-1")
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, title, content, category, created_at, updated_at FROM notes WHERE id = $1 FOR UPDATE",
		get.SQL,
	)

	del, err := sqlbuild.Delete(sqlbuild.Postgres, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM notes WHERE id = $1", del.SQL)
	assert.Equal(t, []any{"id-1"}, del.Args)
}

func TestDests(t *testing.T) {
	var n entity.Note
	dests := sqlbuild.Dests(sqlbuild.Postgres, &n, []query.Field{query.FieldID, query.FieldCreatedAt})

	assert.Len(t, dests, 2)
	assert.Same(t, &n.ID, dests[0])
	assert.Same(t, &n.CreatedAt, dests[1])
}
