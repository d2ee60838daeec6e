package models

import (
	"time"
)

// Follow is a directed edge meaning "follower sees followee's posts in its feed".
// The combination of FollowerID and FolloweeID must be unique; the uniqueness
// constraint is what makes concurrent follow calls race-safe.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follower_followee" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follower_followee" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	Follower Profile `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followee Profile `gorm:"foreignKey:FolloweeID" json:"followee,omitempty"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
