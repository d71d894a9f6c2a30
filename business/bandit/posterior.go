package bandit

import "swipeNews/domain"

// ApplyReaction is the Beta-Bernoulli update for one feedback event.
// A missing belief starts from the Beta(1,1) prior.
func ApplyReaction(beliefs domain.Beliefs, category domain.Category, reaction domain.Reaction) {
	st, ok := beliefs[category]
	if !ok {
		st = domain.NewCategoryBelief()
	}
	// rows written before the prior existed carry zero parameters
	if st.A <= 0 {
		st.A = 1
	}
	if st.B <= 0 {
		st.B = 1
	}

	switch reaction {
	case domain.ReactionLike:
		st.Likes++
		st.A++
	case domain.ReactionDislike:
		st.Dislikes++
		st.B++
	default:
		return
	}

	beliefs[category] = st
	BanditFeedbackEventsTotal.WithLabelValues(string(category), string(reaction)).Inc()
}
