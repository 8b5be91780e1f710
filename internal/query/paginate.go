package query

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultLimit    = 10
	DefaultMaxLimit = 100
)

type Defaults struct {
	Limit int
	// MaxLimit caps the page size. Zero or negative disables the cap.
	MaxLimit int
}

func DefaultDefaults() Defaults {
	return Defaults{Limit: DefaultLimit, MaxLimit: DefaultMaxLimit}
}

type Page struct {
	Number int
	Limit  int
}

// Window is the offset/limit pair handed to a store.
type Window struct {
	Offset int
	Limit  int
}

type Meta struct {
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ParsePage never fails: unparsable values fall back to defaults and
// values below 1 clamp to 1. The page number is capped so its offset
// fits in an int.
func ParsePage(page, limit string, d Defaults) Page {
	if d.Limit < 1 {
		d.Limit = DefaultLimit
	}

	p := Page{
		Number: parsePositive(page, DefaultPage),
		Limit:  parsePositive(limit, d.Limit),
	}

	if d.MaxLimit > 0 && p.Limit > d.MaxLimit {
		p.Limit = d.MaxLimit
	}

	p.Number = min(p.Number, math.MaxInt/p.Limit)

	return p
}

func parsePositive(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}

	return max(n, 1)
}

// Offset saturates at math.MaxInt instead of wrapping.
func (p Page) Offset() int {
	if p.Number <= 1 || p.Limit <= 0 {
		return 0
	}

	if p.Number-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}

	return (p.Number - 1) * p.Limit
}

func (p Page) Window() Window {
	return Window{Offset: p.Offset(), Limit: p.Limit}
}

func (p Page) Meta(total int64) Meta {
	var pages int64
	if total > 0 {
		limit := int64(p.Limit)
		pages = (total + limit - 1) / limit
	}

	return Meta{
		Total:      total,
		Page:       p.Number,
		Limit:      p.Limit,
		TotalPages: int(pages),
	}
}
