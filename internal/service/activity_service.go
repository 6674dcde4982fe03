package service

import (
	"context"
	"fmt"
	"log"

	"shelfmate/internal/models"
	"shelfmate/internal/realtime"
	"shelfmate/internal/repository"
)

// Placeholders used when an event references a profile or book that no
// longer resolves; the feed renders something sensible instead of holes.
const (
	placeholderActor = "A reader"
	placeholderTitle = "an untitled book"
)

// ActivityService fans a user's action out to their followers: one stored
// activity row per follower plus a best-effort realtime push. Storage and
// delivery failures are logged, never propagated - social noise must not
// fail the action that caused it.
type ActivityService interface {
	BookStarted(ctx context.Context, actorID string, book *models.Book)
	BookFinished(ctx context.Context, actorID string, book *models.Book)
	BookReviewed(ctx context.Context, actorID string, book *models.Book, rating int, reviewText string, isSpoiler bool)
	Followed(ctx context.Context, actorID, targetID string)
}

type activityService struct {
	activities repository.ActivityRepository
	follows    repository.FollowRepository
	profiles   repository.ProfileRepository
	publisher  *realtime.Publisher
}

func NewActivityService(
	activities repository.ActivityRepository,
	follows repository.FollowRepository,
	profiles repository.ProfileRepository,
	publisher *realtime.Publisher,
) ActivityService {
	return &activityService{
		activities: activities,
		follows:    follows,
		profiles:   profiles,
		publisher:  publisher,
	}
}

func (s *activityService) BookStarted(ctx context.Context, actorID string, book *models.Book) {
	a := s.template(ctx, actorID, models.ActivityStartedBook, book)
	a.Content = fmt.Sprintf("started reading %s", bookTitle(book))
	s.fanOut(ctx, actorID, a)
}

func (s *activityService) BookFinished(ctx context.Context, actorID string, book *models.Book) {
	a := s.template(ctx, actorID, models.ActivityFinishedBook, book)
	a.Content = fmt.Sprintf("finished %s", bookTitle(book))
	s.fanOut(ctx, actorID, a)
}

func (s *activityService) BookReviewed(ctx context.Context, actorID string, book *models.Book, rating int, reviewText string, isSpoiler bool) {
	a := s.template(ctx, actorID, models.ActivityReviewedBook, book)
	a.Rating = &rating
	if isSpoiler {
		a.Content = "wrote a review (spoilers hidden)"
	} else {
		a.Content = snippet(reviewText, 140)
	}
	s.fanOut(ctx, actorID, a)
}

// Followed notifies only the followed user, not the whole follower graph.
func (s *activityService) Followed(ctx context.Context, actorID, targetID string) {
	a := s.template(ctx, actorID, models.ActivityNewFollower, nil)
	a.Content = "started following you"
	a.UserID = targetID
	s.deliver(ctx, a)
}

// template fills the actor and book payload, defaulting anything that
// fails to resolve.
func (s *activityService) template(ctx context.Context, actorID, activityType string, book *models.Book) models.Activity {
	a := models.Activity{
		ActorID:   actorID,
		ActorName: placeholderActor,
		Type:      activityType,
	}
	if profile, err := s.profiles.GetByID(ctx, actorID); err == nil {
		a.ActorName = profile.Username
		a.AvatarURL = profile.AvatarURL
	}
	if book != nil {
		a.BookTitle = book.Title
		a.BookAuthor = book.Author
		if book.CoverURL != nil {
			a.CoverURL = *book.CoverURL
		}
	}
	return a
}

func (s *activityService) fanOut(ctx context.Context, actorID string, a models.Activity) {
	followers, err := s.follows.GetFollowers(ctx, actorID)
	if err != nil {
		log.Printf("[activity] Follower lookup for %s failed: %v", actorID, err)
		return
	}
	for _, f := range followers {
		event := a
		event.ID = ""
		event.UserID = f.FollowerID
		s.deliver(ctx, event)
	}
}

func (s *activityService) deliver(ctx context.Context, a models.Activity) {
	if err := s.activities.Create(ctx, &a); err != nil {
		log.Printf("[activity] Store for user %s failed: %v", a.UserID, err)
		return
	}
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, &a); err != nil {
		// The row is stored; the recipient picks it up on the next seed.
		log.Printf("[activity] Push for user %s failed: %v", a.UserID, err)
	}
}

func bookTitle(book *models.Book) string {
	if book == nil || book.Title == "" {
		return placeholderTitle
	}
	return book.Title
}

func snippet(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}
