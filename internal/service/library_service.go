package service

import (
	"context"
	"errors"
	"log"
	"time"

	"shelfmate/internal/library"
	"shelfmate/internal/models"
	"shelfmate/internal/repository"
)

var (
	ErrBookNotFound    = errors.New("book not found")
	ErrNotTracked      = errors.New("book is not being tracked")
	ErrAlreadyFinished = errors.New("finished books cannot be reopened")
	ErrPageOutOfRange  = errors.New("current page exceeds total pages")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// LibraryService owns every transition of a tracked book's status:
// to_read -> reading -> finished, with no way back out of finished.
// Mutations go through the repositories and end with a store refresh so
// every reader sees the same snapshot.
type LibraryService interface {
	Shelf(ctx context.Context, userID string) (*library.Snapshot, error)
	Refresh(ctx context.Context, userID string) error
	AddBook(ctx context.Context, userID, title, author string, coverURL *string, totalPages int) (*models.UserBook, error)
	StartReading(ctx context.Context, userID string, bookID int64) (*models.UserBook, error)
	UpdateProgress(ctx context.Context, userID string, bookID int64, currentPage int) (*models.UserBook, error)
	SubmitReview(ctx context.Context, userID string, bookID int64, rating int, reviewText string, isSpoiler bool) (*models.UserBook, error)
	SetFavorite(ctx context.Context, userID string, bookID int64, favorite bool) error
	Replace(ctx context.Context, userID string, bookID int64) error
}

type libraryService struct {
	userBooks  repository.UserBookRepository
	books      repository.BookRepository
	store      *library.Store
	activities ActivityService
}

func NewLibraryService(
	userBooks repository.UserBookRepository,
	books repository.BookRepository,
	store *library.Store,
	activities ActivityService,
) LibraryService {
	return &libraryService{
		userBooks:  userBooks,
		books:      books,
		store:      store,
		activities: activities,
	}
}

// Shelf returns the user's snapshot, refreshing it first when none exists.
func (s *libraryService) Shelf(ctx context.Context, userID string) (*library.Snapshot, error) {
	if snap := s.store.Snapshot(userID); snap != nil {
		return snap, nil
	}
	if err := s.store.Refresh(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.Snapshot(userID), nil
}

func (s *libraryService) Refresh(ctx context.Context, userID string) error {
	return s.store.Refresh(ctx, userID)
}

// AddBook lazily creates the global book row and tracks it as to_read.
// Adding a book the user already tracks updates nothing destructive: the
// upsert keys on (user, book), so the existing row's status survives.
func (s *libraryService) AddBook(ctx context.Context, userID, title, author string, coverURL *string, totalPages int) (*models.UserBook, error) {
	book, err := s.books.FindOrCreate(ctx, &models.Book{
		Title:      title,
		Author:     author,
		CoverURL:   coverURL,
		TotalPages: totalPages,
	})
	if err != nil {
		return nil, err
	}

	// Backfill cover/page count if the catalog knows more than we stored.
	if book.TotalPages == 0 && totalPages > 0 {
		if err := s.books.Backfill(ctx, book.ID, coverURL, totalPages); err != nil {
			log.Printf("[library] Backfill for book %d failed: %v", book.ID, err)
		}
	}

	existing, err := s.userBooks.GetByUserAndBook(ctx, userID, book.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	record := &models.UserBook{
		UserID: userID,
		BookID: book.ID,
		Status: models.StatusToRead,
	}
	if err := s.userBooks.Upsert(ctx, record); err != nil {
		return nil, err
	}
	record.Book = book

	s.refreshAfterWrite(ctx, userID)
	return record, nil
}

// StartReading moves a book into the reading state. Entering fresh resets
// the page to 0; a book already being read keeps its page (resume is a
// no-op self-transition).
func (s *libraryService) StartReading(ctx context.Context, userID string, bookID int64) (*models.UserBook, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, ErrBookNotFound
	}

	record, err := s.userBooks.GetByUserAndBook(ctx, userID, bookID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		record = &models.UserBook{
			UserID:      userID,
			BookID:      bookID,
			Status:      models.StatusReading,
			CurrentPage: 0,
		}
	case err != nil:
		return nil, err
	case record.Status == models.StatusFinished:
		return nil, ErrAlreadyFinished
	case record.Status == models.StatusReading:
		// Resuming: preserve the prior page.
		return record, nil
	default:
		record.Status = models.StatusReading
		record.CurrentPage = 0
	}

	if err := s.userBooks.Upsert(ctx, record); err != nil {
		return nil, err
	}
	record.Book = book

	s.refreshAfterWrite(ctx, userID)
	s.activities.BookStarted(ctx, userID, book)
	return record, nil
}

// UpdateProgress records a new page position. Reaching the final page
// transitions the book to finished automatically.
func (s *libraryService) UpdateProgress(ctx context.Context, userID string, bookID int64, currentPage int) (*models.UserBook, error) {
	record, err := s.userBooks.GetByUserAndBook(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotTracked
		}
		return nil, err
	}
	if record.Status == models.StatusFinished {
		return nil, ErrAlreadyFinished
	}
	if record.Book == nil {
		return nil, ErrBookNotFound
	}
	if currentPage < 0 || (record.Book.TotalPages > 0 && currentPage > record.Book.TotalPages) {
		return nil, ErrPageOutOfRange
	}

	record.Status = models.StatusReading
	record.CurrentPage = currentPage
	if record.Book.TotalPages > 0 && currentPage == record.Book.TotalPages {
		now := time.Now()
		record.Status = models.StatusFinished
		record.FinishedAt = &now
	}

	if err := s.userBooks.Upsert(ctx, record); err != nil {
		return nil, err
	}

	s.refreshAfterWrite(ctx, userID)
	if record.Status == models.StatusFinished {
		s.activities.BookFinished(ctx, userID, record.Book)
	}
	return record, nil
}

// SubmitReview always forces the book to finished: reviewing implies
// completion, and the page is set to the full count by convention.
func (s *libraryService) SubmitReview(ctx context.Context, userID string, bookID int64, rating int, reviewText string, isSpoiler bool) (*models.UserBook, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, ErrBookNotFound
	}

	record, err := s.userBooks.GetByUserAndBook(ctx, userID, bookID)
	if errors.Is(err, repository.ErrNotFound) {
		record = &models.UserBook{UserID: userID, BookID: bookID}
	} else if err != nil {
		return nil, err
	}

	now := time.Now()
	record.Status = models.StatusFinished
	record.CurrentPage = book.TotalPages
	record.Rating = &rating
	record.ReviewText = &reviewText
	record.IsSpoiler = isSpoiler
	if record.FinishedAt == nil {
		record.FinishedAt = &now
	}

	if err := s.userBooks.Upsert(ctx, record); err != nil {
		return nil, err
	}
	record.Book = book

	s.refreshAfterWrite(ctx, userID)
	s.activities.BookReviewed(ctx, userID, book, rating, reviewText, isSpoiler)
	return record, nil
}

func (s *libraryService) SetFavorite(ctx context.Context, userID string, bookID int64, favorite bool) error {
	record, err := s.userBooks.GetByUserAndBook(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotTracked
		}
		return err
	}

	record.IsFavorite = favorite
	if err := s.userBooks.Upsert(ctx, record); err != nil {
		return err
	}

	s.refreshAfterWrite(ctx, userID)
	return nil
}

// Replace removes the tracking row entirely. This is destruction, not a
// status transition; the global book row stays.
func (s *libraryService) Replace(ctx context.Context, userID string, bookID int64) error {
	if err := s.userBooks.Delete(ctx, userID, bookID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotTracked
		}
		return err
	}

	s.refreshAfterWrite(ctx, userID)
	return nil
}

// refreshAfterWrite keeps the shared snapshot in sync with the database.
// The write already succeeded, so a failed refresh only leaves readers on
// the previous consistent snapshot until the next one.
func (s *libraryService) refreshAfterWrite(ctx context.Context, userID string) {
	if err := s.store.Refresh(ctx, userID); err != nil {
		log.Printf("[library] Snapshot refresh for user %s failed: %v", userID, err)
	}
}
