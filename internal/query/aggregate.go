package query

import (
	"cmp"
	"slices"

	"github.com/evgeniy-krivenko/notes-query/internal/entity"
)

// CountCategories groups notes by category and returns the counts sorted with SortCounts.
func CountCategories(notes []entity.Note) []entity.CategoryCount {
	idx := make(map[string]int)
	counts := make([]entity.CategoryCount, 0)

	for _, n := range notes {
		i, ok := idx[n.Category]
		if !ok {
			i = len(counts)
			idx[n.Category] = i
			counts = append(counts, entity.CategoryCount{Category: n.Category})
		}
		counts[i].Count++
	}

	SortCounts(counts)
	return counts
}

// SortCounts orders by count descending, then by category name.
func SortCounts(counts []entity.CategoryCount) {
	slices.SortFunc(counts, func(a, b entity.CategoryCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
}
