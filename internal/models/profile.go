package models

import "time"

// Profile is one-per-user (the primary key is the user id) and is
// upserted on edit.
type Profile struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	FullName  string    `json:"full_name"`
	Bio       string    `json:"bio" gorm:"type:text"`
	AvatarURL string    `json:"avatar_url"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}
