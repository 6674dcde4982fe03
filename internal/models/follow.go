package models

import "time"

// Follow is a directed edge toggled (insert/delete) by the viewer.
type Follow struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	FollowerID  string    `json:"follower_id" gorm:"type:uuid;not null;uniqueIndex:idx_follows_edge"`
	FollowingID string    `json:"following_id" gorm:"type:uuid;not null;uniqueIndex:idx_follows_edge"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	Follower  *User `json:"follower,omitempty" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE;"`
	Following *User `json:"following,omitempty" gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE;"`
}

func (Follow) TableName() string {
	return "follows"
}
