package models

import "time"

// List is owned by exactly one user. Deleting a list cascades to its items.
type List struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	Tag       string    `json:"tag"`
	IsPublic  bool      `json:"is_public" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User  *User      `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Items []ListItem `json:"items,omitempty" gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE;"`
}

func (List) TableName() string {
	return "lists"
}

// ListItem is the join row; unique per (list_id, book_id). A duplicate
// insert is surfaced as an "already in list" condition, not a fatal error.
type ListItem struct {
	ID      int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ListID  int64     `json:"list_id" gorm:"not null;uniqueIndex:idx_list_items_list_book"`
	BookID  int64     `json:"book_id" gorm:"not null;uniqueIndex:idx_list_items_list_book"`
	AddedAt time.Time `json:"added_at" gorm:"autoCreateTime"`

	// Associations
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

func (ListItem) TableName() string {
	return "list_items"
}
