package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"swipeNews/domain"
)

type SwipeEventRepository struct {
	DB *gorm.DB
}

func NewSwipeEventRepository(db *gorm.DB) *SwipeEventRepository {
	return &SwipeEventRepository{DB: db}
}

func (r *SwipeEventRepository) SaveEvents(ctx context.Context, events []domain.SwipeEvent) error {
	if len(events) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&events).Error; err != nil {
		return fmt.Errorf("failed to save swipe events: %w", err)
	}

	return nil
}

// CountByUser returns how many swipes a user has logged.
func (r *SwipeEventRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&domain.SwipeEvent{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count swipe events: %w", err)
	}
	return n, nil
}
