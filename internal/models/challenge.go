package models

import "time"

// ReadingChallenge is a yearly numeric goal, one per (user_id, year),
// upserted on edit. TargetBooks is constrained to >= 1 upstream.
type ReadingChallenge struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_challenges_user_year"`
	Year        int       `json:"year" gorm:"not null;uniqueIndex:idx_challenges_user_year"`
	TargetBooks int       `json:"target_books" gorm:"not null;check:target_books >= 1"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (ReadingChallenge) TableName() string {
	return "reading_challenges"
}
