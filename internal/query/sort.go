package query

import (
	"strings"

	"github.com/evgeniy-krivenko/notes-query/internal/entity"
)

type Direction int

const (
	Desc Direction = iota
	Asc
)

// ParseDirection maps "asc" to Asc. Everything else, including an empty token, is Desc.
func ParseDirection(token string) Direction {
	if strings.EqualFold(strings.TrimSpace(token), "asc") {
		return Asc
	}

	return Desc
}

func (d Direction) String() string {
	if d == Asc {
		return "asc"
	}

	return "desc"
}

// Order sorts by creation time with the id as tie-break. Both keys follow
// the same direction, so Asc and Desc are exact reversals.
type Order struct {
	Direction Direction
}

func (o Order) Compare(a, b entity.Note) int {
	c := a.CreatedAt.Compare(b.CreatedAt)
	if c == 0 {
		c = strings.Compare(a.ID, b.ID)
	}

	if o.Direction == Desc {
		return -c
	}

	return c
}
