package service

import (
	"context"
	"errors"

	"shelfmate/internal/models"
	"shelfmate/internal/repository"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileService interface {
	Upsert(ctx context.Context, profile *models.Profile) error
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Search(ctx context.Context, query string, limit int) ([]models.Profile, error)
}

type profileService struct {
	profiles repository.ProfileRepository
}

func NewProfileService(profiles repository.ProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Upsert(ctx context.Context, profile *models.Profile) error {
	return s.profiles.Upsert(ctx, profile)
}

func (s *profileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *profileService) Search(ctx context.Context, query string, limit int) ([]models.Profile, error) {
	return s.profiles.SearchByUsername(ctx, query, limit)
}
