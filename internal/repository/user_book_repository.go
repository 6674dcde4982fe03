package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shelfmate/internal/models"
)

type UserBookRepository interface {
	GetByUser(ctx context.Context, userID string) ([]models.UserBook, error)
	GetByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.UserBook, error)
	Upsert(ctx context.Context, record *models.UserBook) error
	Delete(ctx context.Context, userID string, bookID int64) error
}

type userBookRepository struct {
	db *gorm.DB
}

func NewUserBookRepository(db *gorm.DB) UserBookRepository {
	return &userBookRepository{db: db}
}

func (r *userBookRepository) GetByUser(ctx context.Context, userID string) ([]models.UserBook, error) {
	var records []models.UserBook
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list user books: %w", err)
	}
	return records, nil
}

func (r *userBookRepository) GetByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.UserBook, error) {
	var record models.UserBook
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&record).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Upsert writes the per-(user, book) tracking row. A second upsert for the
// same pair updates the existing row instead of creating a duplicate.
func (r *userBookRepository) Upsert(ctx context.Context, record *models.UserBook) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "current_page", "rating", "review_text",
				"is_favorite", "is_spoiler", "finished_at", "updated_at",
			}),
		}).
		Create(record).Error
}

func (r *userBookRepository) Delete(ctx context.Context, userID string, bookID int64) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.UserBook{})
	if result.Error != nil {
		return fmt.Errorf("delete user book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
