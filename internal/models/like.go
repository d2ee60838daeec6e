package models

import (
	"time"
)

// Like represents a profile's like on a post.
// The combination of ProfileID and PostID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProfileID uint      `gorm:"not null;uniqueIndex:idx_profile_post" json:"profile_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_profile_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Profile Profile `gorm:"foreignKey:ProfileID" json:"profile"`
	Post    Post    `gorm:"foreignKey:PostID" json:"post"`
}
