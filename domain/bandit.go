package domain

import (
	"errors"
	"fmt"
	"time"
)

type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

var ErrInvalidReaction = errors.New("reaction must be like|dislike")

func ParseReaction(s string) (Reaction, error) {
	switch Reaction(s) {
	case ReactionLike, ReactionDislike:
		return Reaction(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidReaction, s)
	}
}

// CategoryBelief is the Beta(A, B) posterior for one (user, category) arm.
// Under normal operation A == 1+Likes and B == 1+Dislikes.
type CategoryBelief struct {
	A        float64 `json:"a"`
	B        float64 `json:"b"`
	Likes    int     `json:"likes"`
	Dislikes int     `json:"dislikes"`
}

// NewCategoryBelief returns the uniform Beta(1,1) prior.
func NewCategoryBelief() CategoryBelief {
	return CategoryBelief{A: 1, B: 1}
}

// Beliefs maps each category to its posterior.
type Beliefs map[Category]CategoryBelief

// Get returns the stored belief or the prior when none exists.
func (b Beliefs) Get(c Category) CategoryBelief {
	if s, ok := b[c]; ok {
		return s
	}
	return NewCategoryBelief()
}

// TotalFeedback sums likes and dislikes over all categories.
func (b Beliefs) TotalFeedback() int {
	total := 0
	for _, s := range b {
		total += s.Likes + s.Dislikes
	}
	return total
}

// Snapshot returns a belief for every canonical category, filling gaps with the prior.
func (b Beliefs) Snapshot() map[Category]CategoryBelief {
	out := make(map[Category]CategoryBelief, len(categoryList))
	for _, c := range categoryList {
		out[c] = b.Get(c)
	}
	return out
}

// SwipeInput is one feedback event as received at the boundary.
type SwipeInput struct {
	Category   string `json:"category"`
	ArticleURL string `json:"articleUrl"`
	Reaction   string `json:"reaction"`
}

// Swipe is a validated feedback event.
type Swipe struct {
	Category   Category
	ArticleURL string
	Reaction   Reaction
}

// CREATE TABLE public.swipe_events (
//     id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id       TEXT NOT NULL,
//     category      TEXT NOT NULL,
//     article_url   TEXT,
//     reaction      TEXT NOT NULL,
//     created_at    TIMESTAMPTZ DEFAULT NOW()
// );

type SwipeEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"column:user_id;not null;index" json:"user_id"`
	Category   Category  `gorm:"column:category;not null" json:"category"`
	ArticleURL string    `gorm:"column:article_url" json:"article_url,omitempty"`
	Reaction   Reaction  `gorm:"column:reaction;not null" json:"reaction"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SwipeEvent) TableName() string {
	return "swipe_events"
}
