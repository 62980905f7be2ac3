package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"not null;uniqueIndex" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // Hash
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Profile Profile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"profile"`
}

// Profile holds the public-facing part of an account. It is a separate row
// so settings updates can write User and Profile atomically.
type Profile struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	Slug      string     `gorm:"uniqueIndex;not null" json:"slug"`
	Avatar    string     `gorm:"default:'/static/images/avatars/default.jpg'" json:"avatar"`
	Bio       string     `gorm:"type:text" json:"bio"`
	BirthDate *time.Time `json:"birth_date"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AbsoluteURL is the canonical profile location, used in comment payloads.
func (p *Profile) AbsoluteURL() string {
	return "/u/" + p.Slug
}
