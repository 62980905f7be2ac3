package models

import (
	"time"
)

type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"not null" json:"title"`
	Slug       string    `gorm:"uniqueIndex;not null" json:"slug"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	CategoryID *uint     `gorm:"index" json:"category_id"` // Optional
	Category   *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category"`
	Tags       []Tag     `gorm:"many2many:post_tags;" json:"tags"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Filled on demand from the ratings table, never stored
	SumRating int `gorm:"-" json:"sum_rating"`
	// Filled when listing
	CommentCount int `gorm:"-" json:"comment_count"`
}

func (p *Post) AbsoluteURL() string {
	return "/post/" + p.Slug
}

type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}
