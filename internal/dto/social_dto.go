package dto

import "shelfmate/internal/models"

// UpdateProfileRequest: payload to upsert the caller's profile
type UpdateProfileRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=50"`
	FullName  string `json:"full_name" binding:"max=100"`
	Bio       string `json:"bio" binding:"max=500"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url"`
}

// FollowToggleResponse: the resulting edge state after a toggle
type FollowToggleResponse struct {
	Following bool `json:"following"`
}

// ProfileSummary: the public shape of a profile
type ProfileSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func NewProfileSummary(p models.Profile) ProfileSummary {
	return ProfileSummary{
		ID:        p.ID,
		Username:  p.Username,
		FullName:  p.FullName,
		AvatarURL: p.AvatarURL,
	}
}

// FeedResponse: the merged activity feed, newest first
type FeedResponse struct {
	Events []models.Activity `json:"events"`
	Total  int               `json:"total"`
}
