//go:build property
// +build property

package feed

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"swipeNews/domain"
)

// TestFilterFresh_Invariants checks the seen-set bounds for arbitrary inputs.
// Property: len(seen) <= cap, fresh items are distinct and were not seen before.
func TestFilterFresh_Invariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("seen set stays bounded and fresh items are new", prop.ForAll(
		func(existing []string, incoming []string, limit int) bool {
			seen := NewSeenSet(existing)
			before := seen.Clone()

			candidates := make([]domain.Article, len(incoming))
			for i, u := range incoming {
				candidates[i] = domain.Article{URL: u}
			}
			fresh := FilterFresh(seen, candidates, limit)

			if seen.Len() > limit {
				return false
			}
			got := map[string]bool{}
			for _, a := range fresh {
				if a.URL == "" || before.Contains(a.URL) || got[a.URL] {
					return false
				}
				got[a.URL] = true
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AlphaString()),
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t)
}

// TestPaginator_NeverExceedsCeiling
// Property: any advanced cursor lies in [1, ceiling].
func TestPaginator_NeverExceedsCeiling(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("cursor stays within [1, ceiling]", prop.ForAll(
		func(ceiling int, next int) bool {
			p := NewPaginator(ceiling)
			cursor := map[domain.Category]int{}
			got := p.Advance(cursor, domain.CategoryGeneral, next)
			return got >= 1 && got <= p.Ceiling && p.Page(cursor, domain.CategoryGeneral) == got
		},
		gen.IntRange(1, 100),
		gen.IntRange(-10, 500),
	))

	properties.TestingRun(t)
}
