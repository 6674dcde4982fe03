package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfmate/internal/library"
	"shelfmate/internal/models"
	"shelfmate/internal/repository"
	"shelfmate/internal/stats"
)

// In-memory repositories honouring the same uniqueness contracts as the
// real ones: one row per (user, book), upsert updates in place.

type memBookRepo struct {
	nextID int64
	books  map[int64]*models.Book
}

func newMemBookRepo() *memBookRepo {
	return &memBookRepo{books: make(map[int64]*models.Book)}
}

func (r *memBookRepo) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	if b, ok := r.books[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memBookRepo) FindOrCreate(ctx context.Context, book *models.Book) (*models.Book, error) {
	for _, b := range r.books {
		if b.Title == book.Title && b.Author == book.Author {
			copied := *b
			return &copied, nil
		}
	}
	r.nextID++
	book.ID = r.nextID
	copied := *book
	r.books[book.ID] = &copied
	return book, nil
}

func (r *memBookRepo) Backfill(ctx context.Context, id int64, coverURL *string, totalPages int) error {
	if b, ok := r.books[id]; ok {
		if coverURL != nil {
			b.CoverURL = coverURL
		}
		if totalPages > 0 {
			b.TotalPages = totalPages
		}
	}
	return nil
}

func (r *memBookRepo) SearchByTitle(ctx context.Context, title string, limit int) ([]models.Book, error) {
	return nil, nil
}

type userBookKey struct {
	userID string
	bookID int64
}

type memUserBookRepo struct {
	nextID  int64
	records map[userBookKey]*models.UserBook
	books   *memBookRepo
}

func newMemUserBookRepo(books *memBookRepo) *memUserBookRepo {
	return &memUserBookRepo{records: make(map[userBookKey]*models.UserBook), books: books}
}

func (r *memUserBookRepo) withBook(record models.UserBook) models.UserBook {
	if b, ok := r.books.books[record.BookID]; ok {
		copied := *b
		record.Book = &copied
	}
	return record
}

func (r *memUserBookRepo) GetByUser(ctx context.Context, userID string) ([]models.UserBook, error) {
	var out []models.UserBook
	for key, rec := range r.records {
		if key.userID == userID {
			out = append(out, r.withBook(*rec))
		}
	}
	return out, nil
}

func (r *memUserBookRepo) GetByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.UserBook, error) {
	if rec, ok := r.records[userBookKey{userID, bookID}]; ok {
		copied := r.withBook(*rec)
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memUserBookRepo) Upsert(ctx context.Context, record *models.UserBook) error {
	key := userBookKey{record.UserID, record.BookID}
	if existing, ok := r.records[key]; ok {
		record.ID = existing.ID
	} else {
		r.nextID++
		record.ID = r.nextID
	}
	copied := *record
	copied.Book = nil
	r.records[key] = &copied
	return nil
}

func (r *memUserBookRepo) Delete(ctx context.Context, userID string, bookID int64) error {
	key := userBookKey{userID, bookID}
	if _, ok := r.records[key]; !ok {
		return repository.ErrNotFound
	}
	delete(r.records, key)
	return nil
}

type memProfileRepo struct{}

func (memProfileRepo) Upsert(ctx context.Context, profile *models.Profile) error { return nil }
func (memProfileRepo) GetByID(ctx context.Context, userID string) (*models.Profile, error) {
	return nil, repository.ErrNotFound
}
func (memProfileRepo) SearchByUsername(ctx context.Context, query string, limit int) ([]models.Profile, error) {
	return nil, nil
}

// recordingActivities captures emitted event types.
type recordingActivities struct {
	types []string
}

func (r *recordingActivities) BookStarted(ctx context.Context, actorID string, book *models.Book) {
	r.types = append(r.types, models.ActivityStartedBook)
}
func (r *recordingActivities) BookFinished(ctx context.Context, actorID string, book *models.Book) {
	r.types = append(r.types, models.ActivityFinishedBook)
}
func (r *recordingActivities) BookReviewed(ctx context.Context, actorID string, book *models.Book, rating int, reviewText string, isSpoiler bool) {
	r.types = append(r.types, models.ActivityReviewedBook)
}
func (r *recordingActivities) Followed(ctx context.Context, actorID, targetID string) {
	r.types = append(r.types, models.ActivityNewFollower)
}

func newTestLibrary() (LibraryService, *memBookRepo, *memUserBookRepo, *recordingActivities) {
	books := newMemBookRepo()
	userBooks := newMemUserBookRepo(books)
	store := library.NewStore(userBooks, memProfileRepo{})
	activities := &recordingActivities{}
	return NewLibraryService(userBooks, books, store, activities), books, userBooks, activities
}

func TestStartReadingThroughToFinished(t *testing.T) {
	ctx := context.Background()
	svc, books, _, activities := newTestLibrary()

	book, err := books.FindOrCreate(ctx, &models.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 412})
	require.NoError(t, err)

	// No tracking row exists yet; start-reading creates one at page 0.
	record, err := svc.StartReading(ctx, "u1", book.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReading, record.Status)
	assert.Equal(t, 0, record.CurrentPage)

	// Reaching the last page finishes the book automatically.
	record, err = svc.UpdateProgress(ctx, "u1", book.ID, 412)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinished, record.Status)
	require.NotNil(t, record.FinishedAt)
	assert.Equal(t, 100, stats.ProgressPercent(record.CurrentPage, record.Book.TotalPages))

	assert.Equal(t, []string{models.ActivityStartedBook, models.ActivityFinishedBook}, activities.types)
}

func TestUpsertKeepsOneRowPerUserAndBook(t *testing.T) {
	ctx := context.Background()
	svc, books, userBooks, _ := newTestLibrary()

	book, _ := books.FindOrCreate(ctx, &models.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 412})

	_, err := svc.StartReading(ctx, "u1", book.ID)
	require.NoError(t, err)
	_, err = svc.UpdateProgress(ctx, "u1", book.ID, 50)
	require.NoError(t, err)

	// Two writes for the same (user, book): still exactly one row,
	// reflecting the latest values.
	all, err := userBooks.GetByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 50, all[0].CurrentPage)
}

func TestStartReadingPreservesPageWhenResuming(t *testing.T) {
	ctx := context.Background()
	svc, books, _, _ := newTestLibrary()

	book, _ := books.FindOrCreate(ctx, &models.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 412})

	_, err := svc.StartReading(ctx, "u1", book.ID)
	require.NoError(t, err)
	_, err = svc.UpdateProgress(ctx, "u1", book.ID, 120)
	require.NoError(t, err)

	record, err := svc.StartReading(ctx, "u1", book.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, record.CurrentPage)
}

func TestNoTransitionOutOfFinished(t *testing.T) {
	ctx := context.Background()
	svc, books, _, _ := newTestLibrary()

	book, _ := books.FindOrCreate(ctx, &models.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 412})

	_, err := svc.StartReading(ctx, "u1", book.ID)
	require.NoError(t, err)
	_, err = svc.UpdateProgress(ctx, "u1", book.ID, 412)
	require.NoError(t, err)

	_, err = svc.StartReading(ctx, "u1", book.ID)
	assert.ErrorIs(t, err, ErrAlreadyFinished)
	_, err = svc.UpdateProgress(ctx, "u1", book.ID, 10)
	assert.ErrorIs(t, err, ErrAlreadyFinished)
}

func TestUpdateProgressValidatesPageRange(t *testing.T) {
	ctx := context.Background()
	svc, books, _, _ := newTestLibrary()

	book, _ := books.FindOrCreate(ctx, &models.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 412})

	_, err := svc.StartReading(ctx, "u1", book.ID)
	require.NoError(t, err)

	_, err = svc.UpdateProgress(ctx, "u1", book.ID, 500)
	assert.ErrorIs(t, err, ErrPageOutOfRange)
	_, err = svc.UpdateProgress(ctx, "u1", book.ID, -1)
	assert.ErrorIs(t, err, ErrPageOutOfRange)
}

func TestSubmitReviewForcesFinished(t *testing.T) {
	ctx := context.Background()
	svc, books, _, activities := newTestLibrary()

	book, _ := books.FindOrCreate(ctx, &models.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 412})

	// Reviewing an untracked book creates the row already finished, with
	// the page at the full count by convention.
	record, err := svc.SubmitReview(ctx, "u1", book.ID, 5, "A classic.", false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinished, record.Status)
	assert.Equal(t, 412, record.CurrentPage)
	require.NotNil(t, record.FinishedAt)
	require.NotNil(t, record.Rating)
	assert.Equal(t, 5, *record.Rating)

	assert.Contains(t, activities.types, models.ActivityReviewedBook)
}

func TestSubmitReviewRejectsBadRating(t *testing.T) {
	ctx := context.Background()
	svc, books, _, _ := newTestLibrary()

	book, _ := books.FindOrCreate(ctx, &models.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 412})

	_, err := svc.SubmitReview(ctx, "u1", book.ID, 0, "", false)
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = svc.SubmitReview(ctx, "u1", book.ID, 6, "", false)
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestReplaceDeletesTheRow(t *testing.T) {
	ctx := context.Background()
	svc, books, userBooks, _ := newTestLibrary()

	book, _ := books.FindOrCreate(ctx, &models.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 412})

	_, err := svc.StartReading(ctx, "u1", book.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Replace(ctx, "u1", book.ID))

	all, _ := userBooks.GetByUser(ctx, "u1")
	assert.Empty(t, all)

	// The global book row survives the replacement.
	_, err = books.GetByID(ctx, book.ID)
	assert.NoError(t, err)
}

func TestShelfReflectsMutations(t *testing.T) {
	ctx := context.Background()
	svc, books, _, _ := newTestLibrary()

	book, _ := books.FindOrCreate(ctx, &models.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 412})
	_, err := svc.StartReading(ctx, "u1", book.ID)
	require.NoError(t, err)

	snap, err := svc.Shelf(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, snap.Books, 1)
	assert.Equal(t, library.Counts{All: 1, CurrentlyReading: 1}, snap.Counts())
}
