// Package library holds the authoritative in-memory view of what each
// signed-in user is currently tracking. All pages that need the user's
// shelf read the same snapshot; mutations go through the repositories and
// then a refresh, never through direct snapshot edits.
package library

import (
	"context"
	"errors"
	"sync"
	"time"

	"shelfmate/internal/models"
	"shelfmate/internal/repository"
)

// Snapshot is an immutable view of a user's shelf. Readers share the same
// reference; a refresh swaps the whole snapshot atomically, so a reader
// can never observe a half-updated shelf.
type Snapshot struct {
	Books       []models.UserBook
	Profile     *models.Profile
	RefreshedAt time.Time
}

// Counts are derived from the snapshot rows on every call rather than
// stored, so they cannot diverge from the books they describe.
type Counts struct {
	All              int `json:"all"`
	Read             int `json:"read"`
	CurrentlyReading int `json:"currently_reading"`
}

func (s *Snapshot) Counts() Counts {
	c := Counts{All: len(s.Books)}
	for _, b := range s.Books {
		switch b.Status {
		case models.StatusFinished:
			c.Read++
		case models.StatusReading:
			c.CurrentlyReading++
		}
	}
	return c
}

type userState struct {
	issued  uint64 // last refresh sequence handed out
	applied uint64 // sequence of the snapshot currently visible
	snap    *Snapshot
}

// Store caches one snapshot per user and serialises snapshot replacement
// behind a sequence guard: every refresh is tagged when it starts, and a
// completion is applied only if no later refresh has completed first. A
// slow stale response can therefore never clobber a fresher snapshot.
type Store struct {
	books    repository.UserBookRepository
	profiles repository.ProfileRepository

	mu    sync.Mutex
	users map[string]*userState
}

func NewStore(books repository.UserBookRepository, profiles repository.ProfileRepository) *Store {
	return &Store{
		books:    books,
		profiles: profiles,
		users:    make(map[string]*userState),
	}
}

func (s *Store) state(userID string) *userState {
	if st, ok := s.users[userID]; ok {
		return st
	}
	st := &userState{}
	s.users[userID] = st
	return st
}

// Refresh fetches the user's full shelf (joined with book rows) and the
// profile summary, then replaces the prior snapshot atomically. On fetch
// failure the previous snapshot is retained and the error returned; no
// partial state is ever exposed.
func (s *Store) Refresh(ctx context.Context, userID string) error {
	s.mu.Lock()
	st := s.state(userID)
	st.issued++
	seq := st.issued
	s.mu.Unlock()

	books, err := s.books.GetByUser(ctx, userID)
	if err != nil {
		return err
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	snap := &Snapshot{
		Books:       books,
		Profile:     profile,
		RefreshedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= st.applied {
		// A refresh issued after this one already completed; drop the
		// stale response.
		return nil
	}
	st.applied = seq
	st.snap = snap
	return nil
}

// Snapshot returns the current snapshot for a user, or nil before the
// first successful refresh.
func (s *Store) Snapshot(userID string) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.users[userID]; ok {
		return st.snap
	}
	return nil
}

// Invalidate drops a user's cached snapshot, e.g. on sign-out.
func (s *Store) Invalidate(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
}
