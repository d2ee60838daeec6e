// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a post in the Ripple application. CreatedAt is fixed at
// materialization time: for scheduled posts it is set from the request's
// scheduled time, never from the publisher's wall clock.
type Post struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ProfileID uint    `gorm:"not null;index" json:"profile_id"`
	Content   string  `gorm:"type:text;not null" json:"content"`
	ImageURL  string  `json:"image_url"`
	Profile   Profile `gorm:"foreignKey:ProfileID" json:"profile"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current viewing profile liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
