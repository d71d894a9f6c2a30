package bandit

import (
	"math"

	"swipeNews/domain"
)

// Selector picks a category by Thompson Sampling over independent Beta arms.
type Selector struct {
	sampler *Sampler
}

func NewSelector(sampler *Sampler) *Selector {
	return &Selector{sampler: sampler}
}

// Choose draws one Beta sample per candidate and returns the strictly largest.
// Ties go to the earlier candidate. Parameters below 1 are clamped to 1.
// If no candidate yields a finite sample the first candidate is returned;
// an empty candidate list yields the zero Category.
func (s *Selector) Choose(candidates []domain.Category, beliefs domain.Beliefs) domain.Category {
	if len(candidates) == 0 {
		return ""
	}

	var best domain.Category
	bestScore := math.Inf(-1)
	found := false

	for _, c := range candidates {
		st := beliefs.Get(c)
		sample := s.sampler.Beta(clampParam(st.A), clampParam(st.B))
		if math.IsNaN(sample) || math.IsInf(sample, 0) {
			continue
		}
		if !found || sample > bestScore {
			best, bestScore, found = c, sample, true
		}
	}

	if !found {
		return candidates[0]
	}

	BanditChoicesTotal.WithLabelValues(string(best)).Inc()
	BanditWinningSample.Observe(bestScore)
	return best
}

func clampParam(v float64) float64 {
	if math.IsNaN(v) || v < 1 {
		return 1
	}
	return v
}
