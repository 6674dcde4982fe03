package library

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfmate/internal/models"
	"shelfmate/internal/repository"
)

// fakeUserBookRepo serves canned shelves and can be told to fail or to
// block until released, to exercise overlapping refreshes.
type fakeUserBookRepo struct {
	mu      sync.Mutex
	shelves map[string][]models.UserBook
	err     error
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeUserBookRepo) GetByUser(ctx context.Context, userID string) ([]models.UserBook, error) {
	f.mu.Lock()
	gate := f.gate
	entered := f.entered
	err := f.err
	shelf := f.shelves[userID]
	f.mu.Unlock()

	if gate != nil {
		if entered != nil {
			entered <- struct{}{}
		}
		<-gate
	}
	if err != nil {
		return nil, err
	}
	out := make([]models.UserBook, len(shelf))
	copy(out, shelf)
	return out, nil
}

func (f *fakeUserBookRepo) GetByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.UserBook, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeUserBookRepo) Upsert(ctx context.Context, record *models.UserBook) error { return nil }

func (f *fakeUserBookRepo) Delete(ctx context.Context, userID string, bookID int64) error {
	return nil
}

func (f *fakeUserBookRepo) set(userID string, shelf []models.UserBook) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shelves[userID] = shelf
}

func (f *fakeUserBookRepo) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type fakeProfileRepo struct {
	profiles map[string]*models.Profile
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, profile *models.Profile) error { return nil }

func (f *fakeProfileRepo) GetByID(ctx context.Context, userID string) (*models.Profile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProfileRepo) SearchByUsername(ctx context.Context, query string, limit int) ([]models.Profile, error) {
	return nil, nil
}

func newFakes() (*fakeUserBookRepo, *fakeProfileRepo) {
	return &fakeUserBookRepo{shelves: make(map[string][]models.UserBook)},
		&fakeProfileRepo{profiles: make(map[string]*models.Profile)}
}

func shelfOf(statuses ...string) []models.UserBook {
	var shelf []models.UserBook
	for i, s := range statuses {
		shelf = append(shelf, models.UserBook{
			ID:     int64(i + 1),
			BookID: int64(i + 1),
			Status: s,
			Book:   &models.Book{ID: int64(i + 1), Title: "Book", TotalPages: 100},
		})
	}
	return shelf
}

func TestRefreshPopulatesSnapshot(t *testing.T) {
	books, profiles := newFakes()
	books.set("u1", shelfOf(models.StatusReading, models.StatusFinished))
	profiles.profiles["u1"] = &models.Profile{ID: "u1", Username: "reader"}

	store := NewStore(books, profiles)
	require.Nil(t, store.Snapshot("u1"))

	require.NoError(t, store.Refresh(context.Background(), "u1"))

	snap := store.Snapshot("u1")
	require.NotNil(t, snap)
	assert.Len(t, snap.Books, 2)
	require.NotNil(t, snap.Profile)
	assert.Equal(t, "reader", snap.Profile.Username)
}

func TestRefreshToleratesMissingProfile(t *testing.T) {
	books, profiles := newFakes()
	books.set("u1", shelfOf(models.StatusToRead))

	store := NewStore(books, profiles)
	require.NoError(t, store.Refresh(context.Background(), "u1"))

	snap := store.Snapshot("u1")
	require.NotNil(t, snap)
	assert.Nil(t, snap.Profile)
}

func TestFailedRefreshRetainsPriorSnapshot(t *testing.T) {
	books, profiles := newFakes()
	books.set("u1", shelfOf(models.StatusReading))

	store := NewStore(books, profiles)
	require.NoError(t, store.Refresh(context.Background(), "u1"))
	before := store.Snapshot("u1")

	books.fail(errors.New("connection reset"))
	err := store.Refresh(context.Background(), "u1")
	require.Error(t, err)

	// The snapshot after the failed call is the snapshot before it.
	after := store.Snapshot("u1")
	assert.Same(t, before, after)
}

func TestStaleRefreshDoesNotClobberFresherOne(t *testing.T) {
	books, profiles := newFakes()
	books.set("u1", shelfOf(models.StatusReading))

	gate := make(chan struct{})
	entered := make(chan struct{}, 1)
	books.mu.Lock()
	books.gate = gate
	books.entered = entered
	books.mu.Unlock()

	store := NewStore(books, profiles)

	// First refresh starts and stalls inside the fetch.
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- store.Refresh(context.Background(), "u1")
	}()
	<-entered

	// A second refresh is issued afterwards, sees a bigger shelf, and
	// completes first.
	books.mu.Lock()
	books.gate = nil
	books.shelves["u1"] = shelfOf(models.StatusReading, models.StatusFinished)
	books.mu.Unlock()
	require.NoError(t, store.Refresh(context.Background(), "u1"))
	snap := store.Snapshot("u1")
	require.Len(t, snap.Books, 2)

	// Now the stale first refresh finishes; its single-book response must
	// be dropped, not applied.
	close(gate)
	require.NoError(t, <-firstDone)
	assert.Same(t, snap, store.Snapshot("u1"))
}

func TestCountsDerivedFromSnapshot(t *testing.T) {
	books, profiles := newFakes()
	books.set("u1", shelfOf(
		models.StatusReading,
		models.StatusReading,
		models.StatusFinished,
		models.StatusToRead,
	))

	store := NewStore(books, profiles)
	require.NoError(t, store.Refresh(context.Background(), "u1"))

	counts := store.Snapshot("u1").Counts()
	assert.Equal(t, Counts{All: 4, Read: 1, CurrentlyReading: 2}, counts)
}

func TestSnapshotsIsolatedPerUser(t *testing.T) {
	books, profiles := newFakes()
	books.set("u1", shelfOf(models.StatusReading))
	books.set("u2", shelfOf(models.StatusFinished, models.StatusFinished))

	store := NewStore(books, profiles)
	require.NoError(t, store.Refresh(context.Background(), "u1"))
	require.NoError(t, store.Refresh(context.Background(), "u2"))

	assert.Len(t, store.Snapshot("u1").Books, 1)
	assert.Len(t, store.Snapshot("u2").Books, 2)

	store.Invalidate("u1")
	assert.Nil(t, store.Snapshot("u1"))
	assert.NotNil(t, store.Snapshot("u2"))
}
