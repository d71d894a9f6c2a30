package bandit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"swipeNews/domain"
)

func TestApplyReaction_LikeFromPrior(t *testing.T) {
	beliefs := domain.Beliefs{domain.CategoryScience: domain.NewCategoryBelief()}

	ApplyReaction(beliefs, domain.CategoryScience, domain.ReactionLike)

	assert.Equal(t, domain.CategoryBelief{A: 2, B: 1, Likes: 1, Dislikes: 0}, beliefs[domain.CategoryScience])
}

func TestApplyReaction_DislikeFromPrior(t *testing.T) {
	beliefs := domain.Beliefs{domain.CategoryScience: domain.NewCategoryBelief()}

	ApplyReaction(beliefs, domain.CategoryScience, domain.ReactionDislike)

	assert.Equal(t, domain.CategoryBelief{A: 1, B: 2, Likes: 0, Dislikes: 1}, beliefs[domain.CategoryScience])
}

func TestApplyReaction_InitializesMissingBelief(t *testing.T) {
	beliefs := domain.Beliefs{}

	ApplyReaction(beliefs, domain.CategorySports, domain.ReactionLike)
	ApplyReaction(beliefs, domain.CategorySports, domain.ReactionLike)
	ApplyReaction(beliefs, domain.CategorySports, domain.ReactionDislike)

	assert.Equal(t, domain.CategoryBelief{A: 3, B: 2, Likes: 2, Dislikes: 1}, beliefs[domain.CategorySports])
}

func TestApplyReaction_KeepsPriorInvariant(t *testing.T) {
	beliefs := domain.Beliefs{}
	reactions := []domain.Reaction{
		domain.ReactionLike, domain.ReactionDislike, domain.ReactionLike,
		domain.ReactionLike, domain.ReactionDislike,
	}
	for _, r := range reactions {
		ApplyReaction(beliefs, domain.CategoryHealth, r)
	}

	st := beliefs[domain.CategoryHealth]
	assert.Equal(t, float64(1+st.Likes), st.A)
	assert.Equal(t, float64(1+st.Dislikes), st.B)
}

func TestApplyReaction_RepairsZeroParameters(t *testing.T) {
	beliefs := domain.Beliefs{domain.CategoryGeneral: {}}

	ApplyReaction(beliefs, domain.CategoryGeneral, domain.ReactionLike)

	assert.Equal(t, domain.CategoryBelief{A: 2, B: 1, Likes: 1}, beliefs[domain.CategoryGeneral])
}

func TestApplyReaction_UnknownReactionIsIgnored(t *testing.T) {
	beliefs := domain.Beliefs{}

	ApplyReaction(beliefs, domain.CategoryGeneral, domain.Reaction("meh"))

	_, ok := beliefs[domain.CategoryGeneral]
	assert.False(t, ok)
}
