package models

import (
	"time"
)

// Rating is the vote ledger row. The unique index on (post_id, ip_address)
// is load-bearing: the cast-vote path relies on the database rejecting a
// concurrent duplicate insert so the toggle logic can retry safely. The
// address, not the user, is the deduplication key — an authenticated user
// voting from two networks holds two rows.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index;uniqueIndex:idx_post_ip" json:"post_id"`
	Post      Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	UserID    *uint     `gorm:"index" json:"user_id"` // Nullable for anonymous votes
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user"`
	IPAddress string    `gorm:"size:45;not null;uniqueIndex:idx_post_ip" json:"ip_address"`
	Value     int       `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
