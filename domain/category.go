package domain

import (
	"errors"
	"fmt"
)

// Category is one arm of the per-user bandit. The set is closed.
type Category string

const (
	CategoryBusiness      Category = "business"
	CategoryEntertainment Category = "entertainment"
	CategoryGeneral       Category = "general"
	CategoryHealth        Category = "health"
	CategoryScience       Category = "science"
	CategorySports        Category = "sports"
	CategoryTechnology    Category = "technology"
)

var ErrInvalidCategory = errors.New("invalid category")

var categoryList = []Category{
	CategoryBusiness,
	CategoryEntertainment,
	CategoryGeneral,
	CategoryHealth,
	CategoryScience,
	CategorySports,
	CategoryTechnology,
}

// AllCategories returns the canonical category list in display order.
func AllCategories() []Category {
	out := make([]Category, len(categoryList))
	copy(out, categoryList)
	return out
}

func (c Category) Valid() bool {
	for _, known := range categoryList {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// ValidCategories keeps the known categories from names, in order and without duplicates.
// Unknown names are dropped silently.
func ValidCategories(names []string) []Category {
	out := make([]Category, 0, len(names))
	seen := make(map[Category]struct{}, len(names))
	for _, n := range names {
		c := Category(n)
		if !c.Valid() {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
