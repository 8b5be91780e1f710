package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/evgeniy-krivenko/notes-query/internal/entity"
	"github.com/evgeniy-krivenko/notes-query/internal/query"
	"github.com/evgeniy-krivenko/notes-query/internal/repository/sqlbuild"
	"github.com/evgeniy-krivenko/notes-query/pkg/logger/slogx"
)

func (r *Repo) FindNotes(
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

	rows, err := r.db.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("find notes: %v", err)
	}
	defer rows.Close()

	notes := make([]entity.Note, 0, w.Limit)
	for rows.Next() {
		var n entity.Note
		if err := rows.Scan(sqlbuild.Dests(dialect, &n, fields)...); err != nil {
			return nil, fmt.Errorf("scan note: %v", err)
		}
		notes = append(notes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %v", err)
	}

	return notes, nil
}

func (r *Repo) CountNotes(ctx context.Context, f query.Filter) (int64, error) {
	stmt, err := sqlbuild.Count(dialect, f)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, stmt.SQL, stmt.Args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count notes: %v", err)
	}

	return total, nil
}

func (r *Repo) DistinctCategories(ctx context.Context) ([]string, error) {
	stmt, err := sqlbuild.DistinctCategories(dialect)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %v", err)
	}

	categories, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect categories: %v", err)
	}

	return categories, nil
}

func (r *Repo) CountByCategory(ctx context.Context) ([]entity.CategoryCount, error) {
	stmt, err := sqlbuild.CountByCategory(dialect)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("count by category: %v", err)
	}

	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.CategoryCount, error) {
		var c entity.CategoryCount
		err := row.Scan(&c.Category, &c.Count)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect category counts: %v", err)
	}

	return counts, nil
}

func (r *Repo) CreateNote(ctx context.Context, in entity.NoteInput) (entity.Note, error) {
	id, err := entity.NewNoteID()
	if err != nil {
		return entity.Note{}, err
	}

	ts := r.now()
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

	if _, err := r.db.Exec(ctx, stmt.SQL, stmt.Args...); err != nil {
		return entity.Note{}, fmt.Errorf("create note: %v", err)
	}

	slogx.Debug(ctx, "success to create note", slogx.NoteID(id))

	return note, nil
}

func (r *Repo) GetNote(ctx context.Context, id string) (entity.Note, error) {
	if !knownID(id) {
		return entity.Note{}, entity.ErrNoteNotFound
	}

	stmt, err := sqlbuild.Get(dialect, id)
	if err != nil {
		return entity.Note{}, err
	}

	var n entity.Note
	err = r.db.QueryRow(ctx, stmt.SQL, stmt.Args...).Scan(sqlbuild.Dests(dialect, &n, query.Schema)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Note{}, entity.ErrNoteNotFound
		}
		return entity.Note{}, fmt.Errorf("get note: %v", err)
	}

	return n, nil
}

func (r *Repo) UpdateNote(ctx context.Context, id string, patch entity.NotePatch) (entity.Note, error) {
	if !knownID(id) {
		return entity.Note{}, entity.ErrNoteNotFound
	}

	var updated entity.Note

	err := r.db.RunInTx(ctx, func(ctx context.Context) error {
		stmt, err := sqlbuild.GetForUpdate(dialect, id)
		if err != nil {
			return err
		}

		var n entity.Note
		err = r.db.QueryRow(ctx, stmt.SQL, stmt.Args...).Scan(sqlbuild.Dests(dialect, &n, query.Schema)...)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return entity.ErrNoteNotFound
			}
			return fmt.Errorf("lock note: %v", err)
		}

		n = patch.ApplyTo(n)
		n.UpdatedAt = r.now()

		stmt, err = sqlbuild.Update(dialect, n)
		if err != nil {
			return err
		}

		if _, err := r.db.Exec(ctx, stmt.SQL, stmt.Args...); err != nil {
			return fmt.Errorf("update note: %v", err)
		}

		updated = n
		return nil
	})
	if err != nil {
		return entity.Note{}, err
	}

	return updated, nil
}

func (r *Repo) DeleteNote(ctx context.Context, id string) error {
	if !knownID(id) {
		return entity.ErrNoteNotFound
	}

	stmt, err := sqlbuild.Delete(dialect, id)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return fmt.Errorf("delete note: %v", err)
	}

	if tag.RowsAffected() == 0 {
		return entity.ErrNoteNotFound
	}

	return nil
}
