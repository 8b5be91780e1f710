package query

import (
	"strings"
	"time"

	"github.com/evgeniy-krivenko/notes-query/internal/entity"
)

type Field string

const (
	FieldID        Field = "id"
	FieldTitle     Field = "title"
	FieldContent   Field = "content"
	FieldCategory  Field = "category"
	FieldCreatedAt Field = "createdAt"
	FieldUpdatedAt Field = "updatedAt"
)

// Schema lists every note field in output order.
var Schema = []Field{
	FieldID,
	FieldTitle,
	FieldContent,
	FieldCategory,
	FieldCreatedAt,
	FieldUpdatedAt,
}

var fieldNames = map[string]Field{
	"id":        FieldID,
	"_id":       FieldID,
	"title":     FieldTitle,
	"content":   FieldContent,
	"category":  FieldCategory,
	"createdAt": FieldCreatedAt,
	"updatedAt": FieldUpdatedAt,
}

// Projection is the set of fields to return. The zero value selects all fields.
type Projection struct {
	fields map[Field]struct{}
}

// ParseProjection resolves a comma separated field list against Schema.
// Unknown names are dropped and id is always kept.
func ParseProjection(raw string) Projection {
	if strings.TrimSpace(raw) == "" {
		return Projection{}
	}

	fields := map[Field]struct{}{FieldID: {}}
	for _, name := range strings.Split(raw, ",") {
		if f, ok := fieldNames[strings.TrimSpace(name)]; ok {
			fields[f] = struct{}{}
		}
	}

	return Projection{fields: fields}
}

func (p Projection) All() bool {
	return p.fields == nil
}

func (p Projection) Includes(f Field) bool {
	if p.fields == nil {
		return true
	}

	_, ok := p.fields[f]
	return ok
}

// Fields returns the selected fields in Schema order.
func (p Projection) Fields() []Field {
	out := make([]Field, 0, len(Schema))
	for _, f := range Schema {
		if p.Includes(f) {
			out = append(out, f)
		}
	}

	return out
}

// Apply zeroes every field of n that is not selected.
func (p Projection) Apply(n entity.Note) entity.Note {
	if p.All() {
		return n
	}

	if !p.Includes(FieldTitle) {
		n.Title = ""
	}
	if !p.Includes(FieldContent) {
		n.Content = ""
	}
	if !p.Includes(FieldCategory) {
		n.Category = ""
	}
	if !p.Includes(FieldCreatedAt) {
		n.CreatedAt = time.Time{}
	}
	if !p.Includes(FieldUpdatedAt) {
		n.UpdatedAt = time.Time{}
	}

	return n
}
