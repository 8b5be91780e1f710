package converter

import (
	"time"

	"github.com/evgeniy-krivenko/notes-query/internal/entity"
	"github.com/evgeniy-krivenko/notes-query/internal/query"
)

// Note is the wire form of a note. Unprojected fields are omitted.
type Note struct {
	ID        string     `json:"_id"`
	Title     *string    `json:"title,omitempty"`
	Content   *string    `json:"content,omitempty"`
	Category  *string    `json:"category,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type NoteList struct {
	Data []Note `json:"data"`
	Meta Meta   `json:"meta"`
}

type CategoryCount struct {
	Category string `json:"_id"`
	Count    int64  `json:"count"`
}

type NoteInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type NotePatch struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
}

func ConvertNote(n entity.Note, p query.Projection) Note {
	out := Note{ID: n.ID}

	if p.Includes(query.FieldTitle) {
		out.Title = &n.Title
	}
	if p.Includes(query.FieldContent) {
		out.Content = &n.Content
	}
	if p.Includes(query.FieldCategory) {
		out.Category = &n.Category
	}
	if p.Includes(query.FieldCreatedAt) {
		out.CreatedAt = &n.CreatedAt
	}
	if p.Includes(query.FieldUpdatedAt) {
		out.UpdatedAt = &n.UpdatedAt
	}

	return out
}

func ConvertNotes(notes []entity.Note, p query.Projection) []Note {
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, ConvertNote(n, p))
	}

	return out
}

func ConvertMeta(m query.Meta) Meta {
	return Meta{
		Total:      m.Total,
		Page:       m.Page,
		Limit:      m.Limit,
		TotalPages: m.TotalPages,
	}
}

func ConvertCategoryCounts(counts []entity.CategoryCount) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, CategoryCount{Category: c.Category, Count: c.Count})
	}

	return out
}

func ConvertNoteInput(in NoteInput) entity.NoteInput {
	return entity.NoteInput{Title: in.Title, Content: in.Content, Category: in.Category}
}

func ConvertNotePatch(p NotePatch) entity.NotePatch {
	return entity.NotePatch{Title: p.Title, Content: p.Content, Category: p.Category}
}
