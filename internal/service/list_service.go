package service

import (
	"context"
	"errors"

	"shelfmate/internal/models"
	"shelfmate/internal/repository"
)

var (
	ErrAlreadyInList = errors.New("book already in this list")
	ErrListNotFound  = errors.New("list not found")
	ErrNotListOwner  = errors.New("list belongs to another user")
)

type ListService interface {
	Create(ctx context.Context, userID, title, tag string, isPublic bool) (*models.List, error)
	GetByUser(ctx context.Context, userID string) ([]models.List, error)
	Delete(ctx context.Context, userID string, listID int64) error
	AddBook(ctx context.Context, userID string, listID int64, title, author string, coverURL *string, totalPages int) error
	RemoveBook(ctx context.Context, userID string, listID, bookID int64) error
	SearchPublic(ctx context.Context, query string, limit int) ([]models.List, error)
}

type listService struct {
	lists repository.ListRepository
	books repository.BookRepository
}

func NewListService(lists repository.ListRepository, books repository.BookRepository) ListService {
	return &listService{lists: lists, books: books}
}

func (s *listService) Create(ctx context.Context, userID, title, tag string, isPublic bool) (*models.List, error) {
	list := &models.List{
		UserID:   userID,
		Title:    title,
		Tag:      tag,
		IsPublic: isPublic,
	}
	if err := s.lists.Create(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *listService) GetByUser(ctx context.Context, userID string) ([]models.List, error) {
	return s.lists.GetByUser(ctx, userID)
}

func (s *listService) Delete(ctx context.Context, userID string, listID int64) error {
	if err := s.lists.Delete(ctx, userID, listID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrListNotFound
		}
		return err
	}
	return nil
}

// AddBook lazily creates the global book row, then inserts the membership
// row. A duplicate is an informational condition, not a failure.
func (s *listService) AddBook(ctx context.Context, userID string, listID int64, title, author string, coverURL *string, totalPages int) error {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrListNotFound
		}
		return err
	}
	if list.UserID != userID {
		return ErrNotListOwner
	}

	book, err := s.books.FindOrCreate(ctx, &models.Book{
		Title:      title,
		Author:     author,
		CoverURL:   coverURL,
		TotalPages: totalPages,
	})
	if err != nil {
		return err
	}

	if err := s.lists.AddItem(ctx, &models.ListItem{ListID: listID, BookID: book.ID}); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyInList
		}
		return err
	}
	return nil
}

func (s *listService) RemoveBook(ctx context.Context, userID string, listID, bookID int64) error {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrListNotFound
		}
		return err
	}
	if list.UserID != userID {
		return ErrNotListOwner
	}

	if err := s.lists.RemoveItem(ctx, listID, bookID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrListNotFound
		}
		return err
	}
	return nil
}

func (s *listService) SearchPublic(ctx context.Context, query string, limit int) ([]models.List, error) {
	return s.lists.SearchPublic(ctx, query, limit)
}
