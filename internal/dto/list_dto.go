package dto

import (
	"time"

	"shelfmate/internal/models"
)

// CreateListRequest: payload to create a curated list
type CreateListRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=120"`
	Tag      string `json:"tag"`
	IsPublic bool   `json:"is_public"`
}

// AddListItemRequest: payload to add a book to a list. The book is
// referenced by metadata so catalog results can be added directly.
type AddListItemRequest struct {
	Title      string  `json:"title" binding:"required"`
	Author     string  `json:"author" binding:"required"`
	CoverURL   *string `json:"cover_url,omitempty"`
	TotalPages int     `json:"total_pages" binding:"min=0"`
}

// ListResponse: a list with its items
type ListResponse struct {
	ID        int64              `json:"id"`
	UserID    string             `json:"user_id"`
	Title     string             `json:"title"`
	Tag       string             `json:"tag,omitempty"`
	IsPublic  bool               `json:"is_public"`
	Items     []ListItemResponse `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
}

type ListItemResponse struct {
	ID      int64        `json:"id"`
	Book    *models.Book `json:"book,omitempty"`
	AddedAt time.Time    `json:"added_at"`
}

func NewListResponse(l models.List) ListResponse {
	items := make([]ListItemResponse, 0, len(l.Items))
	for _, item := range l.Items {
		items = append(items, ListItemResponse{
			ID:      item.ID,
			Book:    item.Book,
			AddedAt: item.AddedAt,
		})
	}
	return ListResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		Title:     l.Title,
		Tag:       l.Tag,
		IsPublic:  l.IsPublic,
		Items:     items,
		CreatedAt: l.CreatedAt,
	}
}
