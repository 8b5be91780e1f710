// Package memory is a process-local note store.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/evgeniy-krivenko/notes-query/internal/entity"
	"github.com/evgeniy-krivenko/notes-query/internal/query"
)

type Store struct {
	mu    sync.RWMutex
	notes []entity.Note
	now   func() time.Time
}

func New() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

// NewWithClock is New with a custom clock, used to pin creation times.
func NewWithClock(now func() time.Time) *Store {
	return &Store{now: now}
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) FindNotes(
	_ context.Context,
	f query.Filter,
	o query.Order,
	w query.Window,
	p query.Projection,
) ([]entity.Note, error) {
	s.mu.RLock()
	matched := s.match(f)
	s.mu.RUnlock()

	slices.SortFunc(matched, o.Compare)

	start := min(max(w.Offset, 0), len(matched))
	end := start + min(max(w.Limit, 0), len(matched)-start)

	page := make([]entity.Note, 0, end-start)
	for _, n := range matched[start:end] {
		page = append(page, p.Apply(n))
	}

	return page, nil
}

func (s *Store) CountNotes(_ context.Context, f query.Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, n := range s.notes {
		if f.Match(n) {
			total++
		}
	}

	return total, nil
}

func (s *Store) match(f query.Filter) []entity.Note {
	out := make([]entity.Note, 0)
	for _, n := range s.notes {
		if f.Match(n) {
			out = append(out, n)
		}
	}

	return out
}

func (s *Store) DistinctCategories(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]string, 0)
	for _, n := range s.notes {
		if !slices.Contains(categories, n.Category) {
			categories = append(categories, n.Category)
		}
	}
	slices.Sort(categories)

	return categories, nil
}

func (s *Store) CountByCategory(context.Context) ([]entity.CategoryCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return query.CountCategories(s.notes), nil
}

func (s *Store) CreateNote(_ context.Context, in entity.NoteInput) (entity.Note, error) {
	id, err := entity.NewNoteID()
	if err != nil {
		return entity.Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now()
	note := entity.Note{
		ID:        id,
		Title:     in.Title,
		Content:   in.Content,
		Category:  in.Category,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	s.notes = append(s.notes, note)

	return note, nil
}

func (s *Store) GetNote(_ context.Context, id string) (entity.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.index(id)
	if i < 0 {
		return entity.Note{}, entity.ErrNoteNotFound
	}

	return s.notes[i], nil
}

func (s *Store) UpdateNote(_ context.Context, id string, patch entity.NotePatch) (entity.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return entity.Note{}, entity.ErrNoteNotFound
	}

	n := patch.ApplyTo(s.notes[i])
	n.UpdatedAt = s.now()
	s.notes[i] = n

	return n, nil
}

func (s *Store) DeleteNote(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return entity.ErrNoteNotFound
	}

	s.notes = slices.Delete(s.notes, i, i+1)
	return nil
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.notes, func(n entity.Note) bool { return n.ID == id })
}
