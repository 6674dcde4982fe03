package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"shelfmate/internal/models"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	GetRecentByUser(ctx context.Context, userID string, limit int) ([]models.Activity, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Create appends an event; activity rows are never updated or deleted.
func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

func (r *activityRepository) GetRecentByUser(ctx context.Context, userID string, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}
