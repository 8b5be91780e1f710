package query

import (
	"strings"

	"github.com/evgeniy-krivenko/notes-query/internal/entity"
)

// AllCategories disables the category constraint.
const AllCategories = "all"

// Filter is the predicate shared by the listing and its total count.
// Nil fields are unconstrained.
type Filter struct {
	Category *string
	Search   *string
}

func NewFilter(category, search string) Filter {
	var f Filter

	if category != "" && category != AllCategories {
		f.Category = &category
	}

	if search != "" {
		f.Search = &search
	}

	return f
}

func (f Filter) Match(n entity.Note) bool {
	if f.Category != nil && n.Category != *f.Category {
		return false
	}

	if f.Search != nil {
		needle := strings.ToLower(*f.Search)
		if !strings.Contains(strings.ToLower(n.Title), needle) &&
			!strings.Contains(strings.ToLower(n.Content), needle) {
			return false
		}
	}

	return true
}

// LikeEscape is the escape character paired with EscapeLike in SQL.
const LikeEscape = `\`

var likeReplacer = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
)

// EscapeLike escapes LIKE wildcards so s matches only itself.
func EscapeLike(s string) string {
	return likeReplacer.Replace(s)
}

// LikePattern returns a LIKE pattern matching s anywhere in the value.
func LikePattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}
