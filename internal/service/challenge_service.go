package service

import (
	"context"
	"errors"
	"time"

	"shelfmate/internal/library"
	"shelfmate/internal/models"
	"shelfmate/internal/repository"
	"shelfmate/internal/stats"
)

var (
	ErrInvalidTarget = errors.New("challenge target must be at least 1")
	ErrNoChallenge   = errors.New("no challenge set for this year")
)

// ChallengeProgress is the challenge row plus its derived pacing.
type ChallengeProgress struct {
	Challenge     models.ReadingChallenge `json:"challenge"`
	FinishedCount int                     `json:"finished_count"`
	Pacing        stats.Pacing            `json:"pacing"`
}

type ChallengeService interface {
	SetTarget(ctx context.Context, userID string, year, targetBooks int) (*models.ReadingChallenge, error)
	Progress(ctx context.Context, userID string, year int, now time.Time) (*ChallengeProgress, error)
}

type challengeService struct {
	challenges repository.ChallengeRepository
	store      *library.Store
}

func NewChallengeService(challenges repository.ChallengeRepository, store *library.Store) ChallengeService {
	return &challengeService{challenges: challenges, store: store}
}

// SetTarget upserts the one challenge per (user, year). The >= 1 floor is
// enforced here so pacing never divides by zero downstream.
func (s *challengeService) SetTarget(ctx context.Context, userID string, year, targetBooks int) (*models.ReadingChallenge, error) {
	if targetBooks < 1 {
		return nil, ErrInvalidTarget
	}

	challenge := &models.ReadingChallenge{
		UserID:      userID,
		Year:        year,
		TargetBooks: targetBooks,
	}
	if err := s.challenges.Upsert(ctx, challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

func (s *challengeService) Progress(ctx context.Context, userID string, year int, now time.Time) (*ChallengeProgress, error) {
	challenge, err := s.challenges.GetByUserAndYear(ctx, userID, year)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoChallenge
		}
		return nil, err
	}

	snap := s.store.Snapshot(userID)
	if snap == nil {
		if err := s.store.Refresh(ctx, userID); err != nil {
			return nil, err
		}
		snap = s.store.Snapshot(userID)
	}

	finished := finishedInYear(snap.Books, year)
	return &ChallengeProgress{
		Challenge:     *challenge,
		FinishedCount: finished,
		Pacing:        stats.ChallengePacing(challenge.TargetBooks, finished, now.YearDay()),
	}, nil
}

func finishedInYear(books []models.UserBook, year int) int {
	count := 0
	for _, b := range books {
		if b.Status == models.StatusFinished && b.FinishedAt != nil && b.FinishedAt.Year() == year {
			count++
		}
	}
	return count
}
