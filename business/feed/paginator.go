package feed

import "swipeNews/domain"

// Paginator owns the per-user, per-category page cursor into the content source.
type Paginator struct {
	// Ceiling is the last page a cursor may point at; beyond it the cursor wraps to 1.
	Ceiling int
}

func NewPaginator(ceiling int) Paginator {
	if ceiling < 1 {
		ceiling = defaultPageCeiling
	}
	return Paginator{Ceiling: ceiling}
}

// Page returns the stored 1-based page for category, or 1.
func (p Paginator) Page(cursor map[domain.Category]int, category domain.Category) int {
	page := cursor[category]
	if page < 1 || page > p.Ceiling {
		return 1
	}
	return page
}

// Advance stores next as the cursor for category, wrapping to 1 above the ceiling.
func (p Paginator) Advance(cursor map[domain.Category]int, category domain.Category, next int) int {
	if next < 1 || next > p.Ceiling {
		next = 1
	}
	cursor[category] = next
	return next
}
