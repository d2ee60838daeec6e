// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post. Comments are append-only: they are
// never edited or reordered after creation, and are deleted only via the
// parent post's cascade.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Content   string         `gorm:"not null" json:"content"`
	ProfileID uint           `gorm:"not null;index" json:"profile_id"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	Profile   Profile        `gorm:"foreignKey:ProfileID" json:"profile"`
	Post      Post           `gorm:"foreignKey:PostID" json:"post,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
