package domain

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

var (
	ErrUserIDRequired = errors.New("userId required")
	ErrUserNotFound   = errors.New("user not found")
)

// CREATE TABLE public.feed_users (
//     id                 TEXT PRIMARY KEY,
//     filters            JSONB NOT NULL DEFAULT '[]',
//     stats              JSONB NOT NULL DEFAULT '{}',
//     seen               JSONB NOT NULL DEFAULT '[]',
//     page_by_category   JSONB NOT NULL DEFAULT '{}',
//     created_at         TIMESTAMPTZ,
//     updated_at         TIMESTAMPTZ
// );

// UserFeed is the persisted per-user record: bandit state, seen set and pagination cursor.
// It is read-modify-written as one unit per request.
type UserFeed struct {
	ID             string                               `gorm:"primaryKey;column:id"`
	Filters        datatypes.JSONType[[]Category]       `gorm:"column:filters;type:jsonb"`
	Stats          datatypes.JSONType[Beliefs]          `gorm:"column:stats;type:jsonb"`
	Seen           datatypes.JSONType[[]string]         `gorm:"column:seen;type:jsonb"`
	PageByCategory datatypes.JSONType[map[Category]int] `gorm:"column:page_by_category;type:jsonb"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (UserFeed) TableName() string {
	return "feed_users"
}

// UserState is the in-memory working copy of a UserFeed that the feed engine mutates.
type UserState struct {
	ID             string
	Filters        []Category
	Stats          Beliefs
	Seen           []string
	PageByCategory map[Category]int
}

// NewUserState builds a fresh record with the prior on every category.
func NewUserState(id string, filters []Category) *UserState {
	stats := make(Beliefs, len(categoryList))
	for _, c := range categoryList {
		stats[c] = NewCategoryBelief()
	}
	return &UserState{
		ID:             id,
		Filters:        filters,
		Stats:          stats,
		Seen:           []string{},
		PageByCategory: map[Category]int{},
	}
}

// EligibleCategories returns the user's filters, or every category when none are set.
func (u *UserState) EligibleCategories() []Category {
	if len(u.Filters) > 0 {
		out := make([]Category, len(u.Filters))
		copy(out, u.Filters)
		return out
	}
	return AllCategories()
}

// State unpacks the JSON columns. Missing maps are initialized.
func (u UserFeed) State() *UserState {
	st := &UserState{
		ID:             u.ID,
		Filters:        u.Filters.Data(),
		Stats:          u.Stats.Data(),
		Seen:           u.Seen.Data(),
		PageByCategory: u.PageByCategory.Data(),
	}
	if st.Stats == nil {
		st.Stats = Beliefs{}
	}
	if st.PageByCategory == nil {
		st.PageByCategory = map[Category]int{}
	}
	if st.Seen == nil {
		st.Seen = []string{}
	}
	return st
}

// ToRecord packs a UserState back into its persisted form.
func (u *UserState) ToRecord() UserFeed {
	filters := u.Filters
	if filters == nil {
		filters = []Category{}
	}
	return UserFeed{
		ID:             u.ID,
		Filters:        datatypes.NewJSONType(filters),
		Stats:          datatypes.NewJSONType(u.Stats),
		Seen:           datatypes.NewJSONType(u.Seen),
		PageByCategory: datatypes.NewJSONType(u.PageByCategory),
	}
}
