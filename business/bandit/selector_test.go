package bandit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"swipeNews/domain"
)

func TestChoose_StrongArmWins(t *testing.T) {
	sel := NewSelector(NewSampler(NewSource(2024)))
	beliefs := domain.Beliefs{
		domain.CategoryBusiness: {A: 100, B: 1},
		domain.CategorySports:   {A: 1, B: 100},
	}
	candidates := []domain.Category{domain.CategoryBusiness, domain.CategorySports}

	wins := 0
	for i := 0; i < 1000; i++ {
		if sel.Choose(candidates, beliefs) == domain.CategoryBusiness {
			wins++
		}
	}
	assert.GreaterOrEqual(t, wins, 990)
}

func TestChoose_TieGoesToFirstCandidate(t *testing.T) {
	sel := NewSelector(NewSampler(constSource(0.5)))
	candidates := []domain.Category{domain.CategoryHealth, domain.CategoryScience, domain.CategoryGeneral}

	for i := 0; i < 10; i++ {
		assert.Equal(t, domain.CategoryHealth, sel.Choose(candidates, domain.Beliefs{}))
	}
}

func TestChoose_ClampsCorruptedParameters(t *testing.T) {
	sel := NewSelector(NewSampler(NewSource(8)))
	beliefs := domain.Beliefs{
		domain.CategoryHealth:  {A: -3, B: 0},
		domain.CategoryScience: {A: 0, B: 0},
	}
	candidates := []domain.Category{domain.CategoryHealth, domain.CategoryScience}

	assert.NotPanics(t, func() {
		got := sel.Choose(candidates, beliefs)
		assert.Contains(t, candidates, got)
	})
}

func TestChoose_MissingBeliefUsesPrior(t *testing.T) {
	sel := NewSelector(NewSampler(NewSource(13)))
	candidates := []domain.Category{domain.CategoryTechnology, domain.CategorySports}

	counts := map[domain.Category]int{}
	for i := 0; i < 4000; i++ {
		counts[sel.Choose(candidates, nil)]++
	}
	assert.InDelta(t, 2000, counts[domain.CategoryTechnology], 200)
	assert.InDelta(t, 2000, counts[domain.CategorySports], 200)
}

func TestChoose_EmptyCandidates(t *testing.T) {
	sel := NewSelector(NewSampler(NewSource(1)))
	assert.Equal(t, domain.Category(""), sel.Choose(nil, domain.Beliefs{}))
}

func TestChoose_SingleCandidate(t *testing.T) {
	sel := NewSelector(NewSampler(NewSource(1)))
	got := sel.Choose([]domain.Category{domain.CategorySports}, domain.Beliefs{})
	assert.Equal(t, domain.CategorySports, got)
}
