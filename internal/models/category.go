package models

import (
	"time"
)

// Category is a tree via ParentID. Listing by category falls back to the
// direct children when the category itself has no posts.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	ParentID  *uint     `gorm:"index" json:"parent_id"` // Nullable for root categories
	Parent    *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"parent"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
