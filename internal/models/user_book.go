package models

import "time"

// Reading statuses for a UserBook. There is no transition out of
// StatusFinished; a completed record is append-only.
const (
	StatusToRead   = "to_read"
	StatusReading  = "reading"
	StatusFinished = "finished"
)

// UserBook is a user's relationship to a Book: one row per
// (user_id, book_id), enforced by upsert-on-conflict semantics.
type UserBook struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      string     `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_books_user_book"`
	BookID      int64      `json:"book_id" gorm:"not null;uniqueIndex:idx_user_books_user_book"`
	Status      string     `json:"status" gorm:"type:text;not null;default:'to_read'"`
	CurrentPage int        `json:"current_page" gorm:"default:0"`
	Rating      *int       `json:"rating,omitempty" gorm:"check:rating >= 1 AND rating <= 5"`
	ReviewText  *string    `json:"review_text,omitempty" gorm:"type:text"`
	IsFavorite  bool       `json:"is_favorite" gorm:"default:false"`
	IsSpoiler   bool       `json:"is_spoiler" gorm:"default:false"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

func (UserBook) TableName() string {
	return "user_books"
}
