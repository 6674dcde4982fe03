package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shelfmate/internal/models"
)

type ProfileRepository interface {
	Upsert(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, userID string) (*models.Profile, error)
	SearchByUsername(ctx context.Context, query string, limit int) ([]models.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Upsert writes the one-per-user profile row keyed by user id.
func (r *profileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "full_name", "bio", "avatar_url", "updated_at"}),
		}).
		Create(profile).Error; err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", userID).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) SearchByUsername(ctx context.Context, query string, limit int) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.WithContext(ctx).
		Where("username ILIKE ?", "%"+query+"%").
		Order("username ASC").
		Limit(limit).
		Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}
	return profiles, nil
}
