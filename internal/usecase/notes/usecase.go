package notes

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/evgeniy-krivenko/notes-query/internal/entity"
	"github.com/evgeniy-krivenko/notes-query/internal/query"
	"github.com/evgeniy-krivenko/notes-query/pkg/logger/slogx"
)

type notesRepository interface {
	FindNotes(ctx context.Context, f query.Filter, o query.Order, w query.Window, p query.Projection) ([]entity.Note, error)
	CountNotes(ctx context.Context, f query.Filter) (int64, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	CountByCategory(ctx context.Context) ([]entity.CategoryCount, error)

	CreateNote(ctx context.Context, in entity.NoteInput) (entity.Note, error)
	GetNote(ctx context.Context, id string) (entity.Note, error)
	UpdateNote(ctx context.Context, id string, patch entity.NotePatch) (entity.Note, error)
	DeleteNote(ctx context.Context, id string) error
}

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.3 -out-filename=usecase_options.gen.go -from-struct=Options
type Options struct {
	repo notesRepository `option:"mandatory" validate:"required"`

	defaultLimit int `default:"10" validate:"min=1"`
	maxLimit     int `default:"100" validate:"min=0"`
}

type Usecase struct {
	Options
	defaults query.Defaults
}

type NotePage struct {
	Notes      []entity.Note
	Meta       query.Meta
	Projection query.Projection
}

func New(opts Options) (*Usecase, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate notes usecase options: %v", err)
	}

	return &Usecase{
		Options:  opts,
		defaults: query.Defaults{Limit: opts.defaultLimit, MaxLimit: opts.maxLimit},
	}, nil
}

// ListNotes fetches one page and the total count with the same filter.
func (u *Usecase) ListNotes(ctx context.Context, params query.Params) (NotePage, error) {
	q := query.Build(params, u.defaults)

	var (
		notes []entity.Note
		total int64
	)

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		notes, err = u.repo.FindNotes(egCtx, q.Filter, q.Order, q.Page.Window(), q.Projection)
		return err
	})

	eg.Go(func() error {
		var err error
		total, err = u.repo.CountNotes(egCtx, q.Filter)
		return err
	})

	if err := eg.Wait(); err != nil {
		return NotePage{}, fmt.Errorf("usecase list notes: %w", err)
	}

	return NotePage{Notes: notes, Meta: q.Page.Meta(total), Projection: q.Projection}, nil
}

// CategoryStats counts notes per category over the whole collection.
func (u *Usecase) CategoryStats(ctx context.Context) ([]entity.CategoryCount, error) {
	counts, err := u.repo.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase category stats: %w", err)
	}

	query.SortCounts(counts)
	return counts, nil
}

func (u *Usecase) Categories(ctx context.Context) ([]string, error) {
	categories, err := u.repo.DistinctCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase categories: %w", err)
	}

	return categories, nil
}

func (u *Usecase) CreateNote(ctx context.Context, in entity.NoteInput) (entity.Note, error) {
	in, err := in.Normalize()
	if err != nil {
		return entity.Note{}, err
	}

	note, err := u.repo.CreateNote(ctx, in)
	if err != nil {
		return entity.Note{}, fmt.Errorf("usecase create note: %w", err)
	}

	slogx.Info(ctx, "success to create note", slogx.NoteID(note.ID))
	return note, nil
}

func (u *Usecase) GetNote(ctx context.Context, id string) (entity.Note, error) {
	note, err := u.repo.GetNote(ctx, id)
	if err != nil {
		return entity.Note{}, fmt.Errorf("usecase get note: %w", err)
	}

	return note, nil
}

func (u *Usecase) UpdateNote(ctx context.Context, id string, patch entity.NotePatch) (entity.Note, error) {
	patch, err := patch.Normalize()
	if err != nil {
		return entity.Note{}, err
	}

	// nothing to change, keep updatedAt as is
	if patch.Empty() {
		return u.GetNote(ctx, id)
	}

	note, err := u.repo.UpdateNote(ctx, id, patch)
	if err != nil {
		return entity.Note{}, fmt.Errorf("usecase update note: %w", err)
	}

	slogx.Info(ctx, "success to update note", slogx.NoteID(id))
	return note, nil
}

func (u *Usecase) DeleteNote(ctx context.Context, id string) error {
	if err := u.repo.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("usecase delete note: %w", err)
	}

	slogx.Info(ctx, "success to delete note", slogx.NoteID(id))
	return nil
}
