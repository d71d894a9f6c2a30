package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"swipeNews/domain"
)

type UserFeedRepository struct {
	DB *gorm.DB
}

func NewUserFeedRepository(db *gorm.DB) *UserFeedRepository {
	return &UserFeedRepository{DB: db}
}

// FindByID returns (nil, nil) when no record exists.
func (r *UserFeedRepository) FindByID(ctx context.Context, id string) (*domain.UserFeed, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rec domain.UserFeed
	err := r.DB.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query feed_users: %w", err)
	}

	return &rec, nil
}

// Save upserts the whole record on id.
func (r *UserFeedRepository) Save(ctx context.Context, user *domain.UserFeed) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"filters", "stats", "seen", "page_by_category", "updated_at",
			}),
		},
	).Create(user).Error; err != nil {
		return fmt.Errorf("failed to upsert feed_users: %w", err)
	}

	return nil
}
