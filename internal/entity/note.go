package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrNoteNotFound = errors.New("note not found")
	ErrInvalidNote  = errors.New("invalid note")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Note struct {
	ID        string
	Title     string
	Content   string
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NoteInput struct {
	Title    string `validate:"required"`
	Content  string `validate:"required"`
	Category string `validate:"required"`
}

// Normalize trims surrounding whitespace and validates the input.
func (in NoteInput) Normalize() (NoteInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Category = strings.TrimSpace(in.Category)

	if err := validate.Struct(in); err != nil {
		return NoteInput{}, fmt.Errorf("%w: %v", ErrInvalidNote, err)
	}

	return in, nil
}

// NotePatch is a partial update. Nil fields keep their stored value.
type NotePatch struct {
	Title    *string `validate:"omitnil,min=1"`
	Content  *string `validate:"omitnil,min=1"`
	Category *string `validate:"omitnil,min=1"`
}

func (p NotePatch) Normalize() (NotePatch, error) {
	p.Title = trimPtr(p.Title)
	p.Content = trimPtr(p.Content)
	p.Category = trimPtr(p.Category)

	if err := validate.Struct(p); err != nil {
		return NotePatch{}, fmt.Errorf("%w: %v", ErrInvalidNote, err)
	}

	return p, nil
}

func (p NotePatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Category == nil
}

// ApplyTo returns n with the patched fields replaced. UpdatedAt is left to the store.
func (p NotePatch) ApplyTo(n Note) Note {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Category != nil {
		n.Category = *p.Category
	}

	return n
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}

	v := strings.TrimSpace(*s)
	return &v
}

type CategoryCount struct {
	Category string
	Count    int64
}

// NewNoteID returns a time ordered identifier for a new note.
func NewNoteID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("new note id: %w", err)
	}

	return id.String(), nil
}
