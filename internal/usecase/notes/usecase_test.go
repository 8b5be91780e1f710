package notes_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evgeniy-krivenko/notes-query/internal/entity"
	"github.com/evgeniy-krivenko/notes-query/internal/query"
	"github.com/evgeniy-krivenko/notes-query/internal/repository/memory"
	"github.com/evgeniy-krivenko/notes-query/internal/usecase/notes"
)

func newUsecase(t *testing.T, opts ...notes.OptOptionsSetter) (*notes.Usecase, *memory.Store) {
	t.Helper()

	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := memory.NewWithClock(func() time.Time {
		ts = ts.Add(time.Second)
		return ts
	})

	uc, err := notes.New(notes.NewOptions(store, opts...))
	require.NoError(t, err)

	return uc, store
}

func mustCreate(t *testing.T, uc *notes.Usecase, title, content, category string) entity.Note {
	t.Helper()

	n, err := uc.CreateNote(context.Background(), entity.NoteInput{Title: title, Content: content, Category: category})
	require.NoError(t, err)
	return n
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := notes.New(notes.NewOptions(nil))
	assert.Error(t, err)

	_, err = notes.New(notes.NewOptions(memory.New(), notes.WithDefaultLimit(0)))
	assert.Error(t, err)
}

func TestListNotes(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUsecase(t, notes.WithDefaultLimit(5))

	first := mustCreate(t, uc, "Plan sprint", "backlog grooming", "Work")
	mustCreate(t, uc, "Read book", "chapter 2", "Study")
	second := mustCreate(t, uc, "Hello World", "write report", "Work")

	t.Run("second page of category", func(t *testing.T) {
		page, err := uc.ListNotes(ctx, query.Params{Category: "Work", Page: "2", Limit: "1"})
		require.NoError(t, err)

		require.Len(t, page.Notes, 1)
		assert.Equal(t, first, page.Notes[0])
		assert.Equal(t, query.Meta{Total: 2, Page: 2, Limit: 1, TotalPages: 2}, page.Meta)
	})

	t.Run("ascending", func(t *testing.T) {
		page, err := uc.ListNotes(ctx, query.Params{Category: "Work", Sort: "asc", Page: "2", Limit: "1"})
		require.NoError(t, err)

		require.Len(t, page.Notes, 1)
		assert.Equal(t, second, page.Notes[0])
	})

	t.Run("default limit", func(t *testing.T) {
		page, err := uc.ListNotes(ctx, query.Params{Page: "x", Limit: "y"})
		require.NoError(t, err)

		assert.Len(t, page.Notes, 3)
		assert.Equal(t, query.Meta{Total: 3, Page: 1, Limit: 5, TotalPages: 1}, page.Meta)
	})

	t.Run("all equals no category", func(t *testing.T) {
		all, err := uc.ListNotes(ctx, query.Params{Category: "all"})
		require.NoError(t, err)

		none, err := uc.ListNotes(ctx, query.Params{})
		require.NoError(t, err)

		assert.Equal(t, none, all)
	})

	t.Run("search", func(t *testing.T) {
		page, err := uc.ListNotes(ctx, query.Params{Search: "hello"})
		require.NoError(t, err)
		require.Len(t, page.Notes, 1)
		assert.Equal(t, second.ID, page.Notes[0].ID)

		page, err = uc.ListNotes(ctx, query.Params{Search: "WORLD"})
		require.NoError(t, err)
		require.Len(t, page.Notes, 1)

		page, err = uc.ListNotes(ctx, query.Params{Search: ".*"})
		require.NoError(t, err)
		assert.Empty(t, page.Notes)
		assert.Equal(t, 0, page.Meta.TotalPages)
	})

	t.Run("projection", func(t *testing.T) {
		page, err := uc.ListNotes(ctx, query.Params{Fields: "title", Limit: "1"})
		require.NoError(t, err)
		require.Len(t, page.Notes, 1)
		assert.Equal(t, entity.Note{ID: second.ID, Title: second.Title}, page.Notes[0])
	})

	t.Run("page beyond end", func(t *testing.T) {
		page, err := uc.ListNotes(ctx, query.Params{Page: "9", Limit: "2"})
		require.NoError(t, err)
		assert.Empty(t, page.Notes)
		assert.Equal(t, query.Meta{Total: 3, Page: 9, Limit: 2, TotalPages: 2}, page.Meta)
	})

	t.Run("overflowing page", func(t *testing.T) {
		page, err := uc.ListNotes(ctx, query.Params{Page: "922337203685477583", Limit: "10"})
		require.NoError(t, err)
		assert.Empty(t, page.Notes)
		assert.Equal(t, math.MaxInt/10, page.Meta.Page)
		assert.Equal(t, 1, page.Meta.TotalPages)
	})
}

func TestListNotesEmpty(t *testing.T) {
	uc, _ := newUsecase(t)

	page, err := uc.ListNotes(context.Background(), query.Params{})
	require.NoError(t, err)
	assert.Empty(t, page.Notes)
	assert.Equal(t, query.Meta{Total: 0, Page: 1, Limit: 10, TotalPages: 0}, page.Meta)
}

func TestCategoryStats(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUsecase(t)

	for _, c := range []string{"A", "A", "B", "B", "B"} {
		mustCreate(t, uc, "t", "c", c)
	}

	stats, err := uc.CategoryStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.CategoryCount{{Category: "B", Count: 3}, {Category: "A", Count: 2}}, stats)

	categories, err := uc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, categories)
}

func TestMutations(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUsecase(t)

	_, err := uc.CreateNote(ctx, entity.NoteInput{Title: "  ", Content: "c", Category: "Work"})
	assert.ErrorIs(t, err, entity.ErrInvalidNote)

	n := mustCreate(t, uc, "  padded  ", "c", "Work")
	assert.Equal(t, "padded", n.Title)

	empty := " "
	_, err = uc.UpdateNote(ctx, n.ID, entity.NotePatch{Content: &empty})
	assert.ErrorIs(t, err, entity.ErrInvalidNote)

	content := "new content"
	updated, err := uc.UpdateNote(ctx, n.ID, entity.NotePatch{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "padded", updated.Title)
	assert.Equal(t, "new content", updated.Content)

	got, err := uc.GetNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	unchanged, err := uc.UpdateNote(ctx, n.ID, entity.NotePatch{})
	require.NoError(t, err)
	assert.Equal(t, updated, unchanged)

	require.NoError(t, uc.DeleteNote(ctx, n.ID))
	assert.ErrorIs(t, uc.DeleteNote(ctx, n.ID), entity.ErrNoteNotFound)
}

var errStore = errors.New("connection refused")

type failingRepo struct {
	memory.Store
	failFind, failCount bool
}

func (r *failingRepo) FindNotes(ctx context.Context, f query.Filter, o query.Order, w query.Window, p query.Projection) ([]entity.Note, error) {
	if r.failFind {
		return nil, errStore
	}
	return r.Store.FindNotes(ctx, f, o, w, p)
}

func (r *failingRepo) CountNotes(ctx context.Context, f query.Filter) (int64, error) {
	if r.failCount {
		return 0, errStore
	}
	return r.Store.CountNotes(ctx, f)
}

func (r *failingRepo) CountByCategory(context.Context) ([]entity.CategoryCount, error) {
	return nil, errStore
}

func TestStoreFailuresPropagate(t *testing.T) {
	ctx := context.Background()

	for _, repo := range []*failingRepo{{failFind: true}, {failCount: true}} {
		uc, err := notes.New(notes.NewOptions(repo))
		require.NoError(t, err)

		_, err = uc.ListNotes(ctx, query.Params{})
		assert.ErrorIs(t, err, errStore)
	}

	uc, err := notes.New(notes.NewOptions(&failingRepo{}))
	require.NoError(t, err)

	_, err = uc.CategoryStats(ctx)
	assert.ErrorIs(t, err, errStore)
}
