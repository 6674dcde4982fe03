package dto

import (
	"time"

	"shelfmate/internal/library"
	"shelfmate/internal/models"
	"shelfmate/internal/stats"
)

// AddBookRequest: payload to add a book to the user's shelf
type AddBookRequest struct {
	Title      string  `json:"title" binding:"required"`
	Author     string  `json:"author" binding:"required"`
	CoverURL   *string `json:"cover_url,omitempty"`
	TotalPages int     `json:"total_pages" binding:"min=0"`
}

// UpdateProgressRequest: payload to record a new page position
type UpdateProgressRequest struct {
	CurrentPage int `json:"current_page" binding:"min=0"`
}

// SubmitReviewRequest: payload to rate and review a book
type SubmitReviewRequest struct {
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	ReviewText string `json:"review_text"`
	IsSpoiler  bool   `json:"is_spoiler"`
}

// SetFavoriteRequest: payload to toggle the favorite flag
type SetFavoriteRequest struct {
	IsFavorite bool `json:"is_favorite"`
}

// UserBookResponse: one tracked book with its derived progress
type UserBookResponse struct {
	ID              int64        `json:"id"`
	Book            *models.Book `json:"book,omitempty"`
	Status          string       `json:"status"`
	CurrentPage     int          `json:"current_page"`
	ProgressPercent int          `json:"progress_percent"`
	Rating          *int         `json:"rating,omitempty"`
	ReviewText      *string      `json:"review_text,omitempty"`
	IsFavorite      bool         `json:"is_favorite"`
	IsSpoiler       bool         `json:"is_spoiler"`
	FinishedAt      *time.Time   `json:"finished_at,omitempty"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// ShelfResponse: the whole shelf snapshot plus derived statistics
type ShelfResponse struct {
	Books       []UserBookResponse `json:"books"`
	Counts      library.Counts     `json:"counts"`
	Stats       ShelfStats         `json:"stats"`
	RefreshedAt time.Time          `json:"refreshed_at"`
}

// ShelfStats: aggregates computed from the snapshot rows
type ShelfStats struct {
	TotalPagesRead     int               `json:"total_pages_read"`
	AverageRating      float64           `json:"average_rating"`
	RatingDistribution [5]stats.StarCount `json:"rating_distribution"`
}

// NewUserBookResponse maps a tracked row to its API shape.
func NewUserBookResponse(ub models.UserBook) UserBookResponse {
	totalPages := 0
	if ub.Book != nil {
		totalPages = ub.Book.TotalPages
	}
	return UserBookResponse{
		ID:              ub.ID,
		Book:            ub.Book,
		Status:          ub.Status,
		CurrentPage:     ub.CurrentPage,
		ProgressPercent: stats.ProgressPercent(ub.CurrentPage, totalPages),
		Rating:          ub.Rating,
		ReviewText:      ub.ReviewText,
		IsFavorite:      ub.IsFavorite,
		IsSpoiler:       ub.IsSpoiler,
		FinishedAt:      ub.FinishedAt,
		UpdatedAt:       ub.UpdatedAt,
	}
}

// NewShelfResponse maps a snapshot, computing stats from the same rows.
func NewShelfResponse(snap *library.Snapshot) ShelfResponse {
	books := make([]UserBookResponse, 0, len(snap.Books))
	for _, ub := range snap.Books {
		books = append(books, NewUserBookResponse(ub))
	}
	return ShelfResponse{
		Books:       books,
		Counts:      snap.Counts(),
		Stats:       NewShelfStats(snap.Books),
		RefreshedAt: snap.RefreshedAt,
	}
}

func NewShelfStats(books []models.UserBook) ShelfStats {
	return ShelfStats{
		TotalPagesRead:     stats.TotalPagesRead(books),
		AverageRating:      stats.AverageRating(books),
		RatingDistribution: stats.RatingDistribution(books),
	}
}
