package service

import (
	"context"
	"sync"

	"shelfmate/internal/feed"
	"shelfmate/internal/models"
	"shelfmate/internal/realtime"
	"shelfmate/internal/repository"
)

// FeedService keeps one feed merger per user, seeded from the database and
// extended by realtime pushes. A failed seed leaves the merger in its
// last-known-good state.
type FeedService interface {
	Feed(ctx context.Context, userID string) ([]models.Activity, error)
	Merge(userID string, event models.Activity)
	Subscribe(ctx context.Context, userID string) (*realtime.Subscription, error)
}

type feedService struct {
	activities repository.ActivityRepository
	subscriber *realtime.Subscriber

	mu      sync.Mutex
	mergers map[string]*feed.Merger
}

func NewFeedService(activities repository.ActivityRepository, subscriber *realtime.Subscriber) FeedService {
	return &feedService{
		activities: activities,
		subscriber: subscriber,
		mergers:    make(map[string]*feed.Merger),
	}
}

func (s *feedService) merger(userID string) *feed.Merger {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.mergers[userID]; ok {
		return m
	}
	m := feed.NewMerger(feed.DefaultLimit)
	s.mergers[userID] = m
	return m
}

// Feed re-seeds from the database and returns the merged view. On fetch
// failure the prior feed is kept and the error reported to the caller.
func (s *feedService) Feed(ctx context.Context, userID string) ([]models.Activity, error) {
	m := s.merger(userID)

	events, err := s.activities.GetRecentByUser(ctx, userID, feed.DefaultLimit)
	if err != nil {
		return m.Snapshot(), err
	}

	m.Seed(events)
	return m.Snapshot(), nil
}

// Merge folds a pushed event into the user's feed, idempotently by id.
func (s *feedService) Merge(userID string, event models.Activity) {
	s.merger(userID).Push(event)
}

func (s *feedService) Subscribe(ctx context.Context, userID string) (*realtime.Subscription, error) {
	return s.subscriber.Subscribe(ctx, userID)
}
