package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shelfmate/internal/models"
)

type ChallengeRepository interface {
	Upsert(ctx context.Context, challenge *models.ReadingChallenge) error
	GetByUserAndYear(ctx context.Context, userID string, year int) (*models.ReadingChallenge, error)
}

type challengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

// Upsert keeps one challenge per (user_id, year).
func (r *challengeRepository) Upsert(ctx context.Context, challenge *models.ReadingChallenge) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "year"}},
			DoUpdates: clause.AssignmentColumns([]string{"target_books", "updated_at"}),
		}).
		Create(challenge).Error; err != nil {
		return fmt.Errorf("upsert challenge: %w", err)
	}
	return nil
}

func (r *challengeRepository) GetByUserAndYear(ctx context.Context, userID string, year int) (*models.ReadingChallenge, error) {
	var challenge models.ReadingChallenge
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND year = ?", userID, year).
		First(&challenge).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &challenge, nil
}
