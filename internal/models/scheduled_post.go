package models

import (
	"time"
)

// SchedulePostStatus represents the lifecycle state of a scheduled-post request.
type SchedulePostStatus string

const (
	// ScheduleStatusPending indicates the request has not been materialized yet.
	ScheduleStatusPending SchedulePostStatus = "pending"
	// ScheduleStatusPublished indicates a Post has been created for this request.
	ScheduleStatusPublished SchedulePostStatus = "published"
	// ScheduleStatusFailed indicates the request exhausted its retries.
	ScheduleStatusFailed SchedulePostStatus = "failed"
)

// ScheduledPost is a deferred-publication request. The row is the durable
// source of truth for the publisher; the queue only carries wake-up nudges.
// IdempotencyKey guarantees at most one materialized Post per request even
// under at-least-once redelivery.
type ScheduledPost struct {
	ID             uint               `gorm:"primaryKey" json:"id"`
	IdempotencyKey string             `gorm:"uniqueIndex;not null" json:"idempotency_key"`
	ProfileID      uint               `gorm:"not null;index" json:"profile_id"`
	Content        string             `gorm:"type:text;not null" json:"content"`
	ImageURL       string             `json:"image_url"`
	ScheduledAt    time.Time          `gorm:"not null;index" json:"scheduled_at"`
	Status         SchedulePostStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PostID         *uint              `json:"post_id,omitempty"`
	Attempts       int                `gorm:"default:0" json:"attempts"`
	LastError      string             `json:"last_error,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`

	Profile Profile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}

// TableName specifies the table name for GORM
func (ScheduledPost) TableName() string {
	return "scheduled_posts"
}
