// Package sqlbuild renders note queries for the SQL backed stores.
package sqlbuild

import (
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/evgeniy-krivenko/notes-query/internal/entity"
	"github.com/evgeniy-krivenko/notes-query/internal/query"
)

const Table = "notes"

type Dialect struct {
	Name   string
	Format sq.PlaceholderFormat
	// Like is the LIKE operator used for search.
	Like string
	// Fold wraps an operand of Like, nil leaves it as is.
	Fold func(expr string) string
	// TimeArg converts a timestamp into a bind value.
	TimeArg func(time.Time) any
	// TimeDest wraps a timestamp into a scan destination.
	TimeDest func(*time.Time) any
}

var Postgres = Dialect{
	Name:     "postgres",
	Format:   sq.Dollar,
	Like:     "ILIKE",
	TimeArg:  func(t time.Time) any { return t },
	TimeDest: func(t *time.Time) any { return t },
}

func (d Dialect) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(d.Format)
}

func (d Dialect) fold(expr string) string {
	if d.Fold == nil {
		return expr
	}
	return d.Fold(expr)
}

func (d Dialect) contains(column, pattern string) sq.Sqlizer {
	return sq.Expr(
		fmt.Sprintf("%s %s %s ESCAPE '%s'", d.fold(column), d.Like, d.fold("?"), query.LikeEscape),
		pattern,
	)
}

var columns = map[query.Field]string{
	query.FieldID:        "id",
	query.FieldTitle:     "title",
	query.FieldContent:   "content",
	query.FieldCategory:  "category",
	query.FieldCreatedAt: "created_at",
	query.FieldUpdatedAt: "updated_at",
}

func Column(f query.Field) string {
	return columns[f]
}

var allColumns = []string{"id", "title", "content", "category", "created_at", "updated_at"}

type Statement struct {
	SQL  string
	Args []any
}

func statement(b sq.Sqlizer) (Statement, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return Statement{}, fmt.Errorf("build sql: %v", err)
	}

	return Statement{SQL: sql, Args: args}, nil
}

func (d Dialect) where(b sq.SelectBuilder, f query.Filter) sq.SelectBuilder {
	if f.Category != nil {
		b = b.Where(sq.Eq{"category": *f.Category})
	}

	if f.Search != nil {
		pattern := query.LikePattern(*f.Search)
		b = b.Where(sq.Or{d.contains("title", pattern), d.contains("content", pattern)})
	}

	return b
}

// Find selects the projected columns of the matching notes in the given
// order and window. It returns the selected fields in column order.
func Find(d Dialect, f query.Filter, o query.Order, w query.Window, p query.Projection) (Statement, []query.Field, error) {
	fields := p.Fields()
	cols := make([]string, 0, len(fields))
	for _, field := range fields {
		cols = append(cols, Column(field))
	}

	dir := strings.ToUpper(o.Direction.String())

	b := d.where(d.builder().Select(cols...).From(Table), f).
		OrderBy("created_at "+dir, "id "+dir).
		Limit(uint64(max(w.Limit, 0))).
		Offset(uint64(max(w.Offset, 0)))

	stmt, err := statement(b)
	return stmt, fields, err
}

func Count(d Dialect, f query.Filter) (Statement, error) {
	return statement(d.where(d.builder().Select("COUNT(*)").From(Table), f))
}

func DistinctCategories(d Dialect) (Statement, error) {
	return statement(d.builder().Select("category").Distinct().From(Table).OrderBy("category"))
}

func CountByCategory(d Dialect) (Statement, error) {
	return statement(d.builder().
		Select("category", "COUNT(*) AS cnt").
		From(Table).
		GroupBy("category").
		OrderBy("cnt DESC", "category ASC"))
}

func Get(d Dialect, id string) (Statement, error) {
	return statement(d.builder().Select(allColumns...).From(Table).Where(sq.Eq{"id": id}))
}

// GetForUpdate is Get holding a row lock until the transaction ends.
func GetForUpdate(d Dialect, id string) (Statement, error) {
	return statement(d.builder().Select(allColumns...).From(Table).Where(sq.Eq{"id": id}).Suffix("FOR UPDATE"))
}

func Insert(d Dialect, n entity.Note) (Statement, error) {
	return statement(d.builder().
		Insert(Table).
		Columns(allColumns...).
		Values(n.ID, n.Title, n.Content, n.Category, d.TimeArg(n.CreatedAt), d.TimeArg(n.UpdatedAt)))
}

// Update writes the mutable fields of n. The creation time is never touched.
func Update(d Dialect, n entity.Note) (Statement, error) {
	return statement(d.builder().
		Update(Table).
		Set("title", n.Title).
		Set("content", n.Content).
		Set("category", n.Category).
		Set("updated_at", d.TimeArg(n.UpdatedAt)).
		Where(sq.Eq{"id": n.ID}))
}

func Delete(d Dialect, id string) (Statement, error) {
	return statement(d.builder().Delete(Table).Where(sq.Eq{"id": id}))
}

// Dests returns scan destinations for fields, writing into n.
func Dests(d Dialect, n *entity.Note, fields []query.Field) []any {
	dests := make([]any, 0, len(fields))
	for _, f := range fields {
		switch f {
		case query.FieldID:
			dests = append(dests, &n.ID)
		case query.FieldTitle:
			dests = append(dests, &n.Title)
		case query.FieldContent:
			dests = append(dests, &n.Content)
		case query.FieldCategory:
			dests = append(dests, &n.Category)
		case query.FieldCreatedAt:
			dests = append(dests, d.TimeDest(&n.CreatedAt))
		case query.FieldUpdatedAt:
			dests = append(dests, d.TimeDest(&n.UpdatedAt))
		}
	}

	return dests
}
