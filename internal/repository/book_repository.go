package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"shelfmate/internal/models"
)

type BookRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	FindOrCreate(ctx context.Context, book *models.Book) (*models.Book, error)
	Backfill(ctx context.Context, id int64, coverURL *string, totalPages int) error
	SearchByTitle(ctx context.Context, title string, limit int) ([]models.Book, error)
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// FindOrCreate dedupes books by (title, author). A concurrent insert of the
// same pair loses the race on the unique index and falls back to the lookup.
func (r *bookRepository) FindOrCreate(ctx context.Context, book *models.Book) (*models.Book, error) {
	var existing models.Book
	err := r.db.WithContext(ctx).
		Where("title = ? AND author = ?", book.Title, book.Author).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("lookup book: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		if isUniqueViolation(err) {
			if err := r.db.WithContext(ctx).
				Where("title = ? AND author = ?", book.Title, book.Author).
				First(&existing).Error; err != nil {
				return nil, fmt.Errorf("lookup book after conflict: %w", err)
			}
			return &existing, nil
		}
		return nil, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

// Backfill updates cover and page count only; books are otherwise immutable.
func (r *bookRepository) Backfill(ctx context.Context, id int64, coverURL *string, totalPages int) error {
	updates := map[string]any{}
	if coverURL != nil {
		updates["cover_url"] = *coverURL
	}
	if totalPages > 0 {
		updates["total_pages"] = totalPages
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *bookRepository) SearchByTitle(ctx context.Context, title string, limit int) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.WithContext(ctx).
		Where("title ILIKE ?", "%"+title+"%").
		Order("title ASC").
		Limit(limit).
		Find(&books).Error; err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return books, nil
}
