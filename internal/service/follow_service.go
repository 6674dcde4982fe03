package service

import (
	"context"
	"errors"

	"shelfmate/internal/models"
	"shelfmate/internal/repository"
)

var ErrSelfFollow = errors.New("cannot follow yourself")

type FollowService interface {
	// Toggle flips the directed edge and reports whether the viewer now
	// follows the target.
	Toggle(ctx context.Context, followerID, followingID string) (following bool, err error)
	Followers(ctx context.Context, userID string) ([]models.Follow, error)
	Following(ctx context.Context, userID string) ([]models.Follow, error)
}

type followService struct {
	follows    repository.FollowRepository
	activities ActivityService
}

func NewFollowService(follows repository.FollowRepository, activities ActivityService) FollowService {
	return &followService{follows: follows, activities: activities}
}

func (s *followService) Toggle(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == followingID {
		return false, ErrSelfFollow
	}

	exists, err := s.follows.Exists(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}

	if exists {
		if err := s.follows.Delete(ctx, followerID, followingID); err != nil {
			return false, err
		}
		return false, nil
	}

	err = s.follows.Create(ctx, &models.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
	})
	if err != nil {
		// A concurrent toggle beat us to the insert; the edge exists,
		// which is the state the caller asked for.
		if errors.Is(err, repository.ErrDuplicate) {
			return true, nil
		}
		return false, err
	}

	s.activities.Followed(ctx, followerID, followingID)
	return true, nil
}

func (s *followService) Followers(ctx context.Context, userID string) ([]models.Follow, error) {
	return s.follows.GetFollowers(ctx, userID)
}

func (s *followService) Following(ctx context.Context, userID string) ([]models.Follow, error) {
	return s.follows.GetFollowing(ctx, userID)
}
