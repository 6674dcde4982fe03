package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity types delivered to a recipient's feed.
const (
	ActivityFinishedBook = "FINISHED_BOOK"
	ActivityReviewedBook = "REVIEWED_BOOK"
	ActivityStartedBook  = "STARTED_BOOK"
	ActivityNewFollower  = "NEW_FOLLOWER"
)

// Activity is an append-only event describing another user's action,
// delivered to the recipient's feed. The id is assigned before the row is
// stored so the realtime push and the fetched row share identity; the feed
// merger relies on that for idempotent merging.
type Activity struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID     string    `json:"user_id" gorm:"type:uuid;not null;index"`
	ActorID    string    `json:"actor_id" gorm:"type:uuid;not null"`
	ActorName  string    `json:"actor_name"`
	AvatarURL  string    `json:"avatar_url"`
	Type       string    `json:"type" gorm:"not null"`
	BookTitle  string    `json:"book_title"`
	BookAuthor string    `json:"book_author"`
	CoverURL   string    `json:"cover_url"`
	Rating     *int      `json:"rating,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at" gorm:"default:CURRENT_TIMESTAMP"`
}

// BeforeCreate hook to set UUID before creating an Activity
func (a *Activity) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}

func (Activity) TableName() string {
	return "activities"
}
