package models

import "time"

// Book is global and deduplicated by (title, author). Rows are created
// lazily on first reference and never deleted; only cover and page count
// may be backfilled after creation.
type Book struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title      string    `json:"title" gorm:"not null;uniqueIndex:idx_books_title_author"`
	Author     string    `json:"author" gorm:"not null;uniqueIndex:idx_books_title_author"`
	CoverURL   *string   `json:"cover_url,omitempty"`
	TotalPages int       `json:"total_pages" gorm:"default:0"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Book) TableName() string {
	return "books"
}
