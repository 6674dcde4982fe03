package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"shelfmate/internal/models"
)

type ListRepository interface {
	Create(ctx context.Context, list *models.List) error
	GetByUser(ctx context.Context, userID string) ([]models.List, error)
	GetByID(ctx context.Context, id int64) (*models.List, error)
	Delete(ctx context.Context, userID string, listID int64) error
	AddItem(ctx context.Context, item *models.ListItem) error
	RemoveItem(ctx context.Context, listID, bookID int64) error
	SearchPublic(ctx context.Context, query string, limit int) ([]models.List, error)
}

type listRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) ListRepository {
	return &listRepository{db: db}
}

func (r *listRepository) Create(ctx context.Context, list *models.List) error {
	if err := r.db.WithContext(ctx).Create(list).Error; err != nil {
		return fmt.Errorf("create list: %w", err)
	}
	return nil
}

func (r *listRepository) GetByUser(ctx context.Context, userID string) ([]models.List, error) {
	var lists []models.List
	if err := r.db.WithContext(ctx).
		Preload("Items.Book").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&lists).Error; err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	return lists, nil
}

func (r *listRepository) GetByID(ctx context.Context, id int64) (*models.List, error) {
	var list models.List
	if err := r.db.WithContext(ctx).
		Preload("Items.Book").
		First(&list, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &list, nil
}

// Delete removes an owned list; items cascade via the foreign key.
func (r *listRepository) Delete(ctx context.Context, userID string, listID int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", listID, userID).
		Delete(&models.List{})
	if result.Error != nil {
		return fmt.Errorf("delete list: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddItem inserts a membership row. A duplicate (list_id, book_id) pair is
// reported as ErrDuplicate so callers can surface "already in this list".
func (r *listRepository) AddItem(ctx context.Context, item *models.ListItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("add list item: %w", err)
	}
	return nil
}

func (r *listRepository) RemoveItem(ctx context.Context, listID, bookID int64) error {
	result := r.db.WithContext(ctx).
		Where("list_id = ? AND book_id = ?", listID, bookID).
		Delete(&models.ListItem{})
	if result.Error != nil {
		return fmt.Errorf("remove list item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *listRepository) SearchPublic(ctx context.Context, query string, limit int) ([]models.List, error) {
	var lists []models.List
	if err := r.db.WithContext(ctx).
		Preload("Items.Book").
		Where("is_public = true AND (title ILIKE ? OR tag ILIKE ?)", "%"+query+"%", "%"+query+"%").
		Order("updated_at DESC").
		Limit(limit).
		Find(&lists).Error; err != nil {
		return nil, fmt.Errorf("search public lists: %w", err)
	}
	return lists, nil
}
