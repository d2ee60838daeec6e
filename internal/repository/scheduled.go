// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"ripple/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScheduledPostRepository persists deferred-publication requests. The table is
// the durable source of truth for the publisher; the idempotency key's unique
// constraint is what keeps redelivery from producing a second Post.
type ScheduledPostRepository interface {
	// Create inserts the request, deduplicating on idempotency key. When the
	// key already exists the stored request is returned and created is false.
	Create(ctx context.Context, req *models.ScheduledPost) (created bool, err error)
	GetByID(ctx context.Context, id uint) (*models.ScheduledPost, error)
	GetByKey(ctx context.Context, key string) (*models.ScheduledPost, error)
	// DueIDs returns pending requests whose scheduled time has elapsed.
	DueIDs(ctx context.Context, now time.Time, limit int) ([]uint, error)
	// Materialize atomically creates the Post for a due pending request and
	// transitions it to Published. Re-invocation on a Published request is a
	// no-op returning the stored state.
	Materialize(ctx context.Context, id uint, now time.Time) (*models.ScheduledPost, error)
	// RecordFailure bumps the attempt counter and, once maxAttempts is
	// reached, transitions the request to Failed.
	RecordFailure(ctx context.Context, id uint, cause error, maxAttempts int) (*models.ScheduledPost, error)
	CountPending(ctx context.Context) (int64, error)
}

// ErrNotDue is returned by Materialize for a pending request whose scheduled
// time has not elapsed yet. The request stays pending for a later due-scan.
var ErrNotDue = errors.New("scheduled post is not due yet")

type scheduledPostRepository struct {
	db *gorm.DB
}

// NewScheduledPostRepository creates a new scheduled post repository
func NewScheduledPostRepository(db *gorm.DB) ScheduledPostRepository {
	return &scheduledPostRepository{db: db}
}

func (r *scheduledPostRepository) Create(ctx context.Context, req *models.ScheduledPost) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "idempotency_key"}},
			DoNothing: true,
		}).
		Create(req)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	// Conflict: the key was used before. Surface the original request so the
	// caller's re-invocation is safe (same schedule, same eventual post).
	existing, err := r.GetByKey(ctx, req.IdempotencyKey)
	if err != nil {
		return false, err
	}
	*req = *existing
	return false, nil
}

func (r *scheduledPostRepository) GetByID(ctx context.Context, id uint) (*models.ScheduledPost, error) {
	var req models.ScheduledPost
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Scheduled post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

func (r *scheduledPostRepository) GetByKey(ctx context.Context, key string) (*models.ScheduledPost, error) {
	var req models.ScheduledPost
	if err := r.db.WithContext(ctx).
		Where("idempotency_key = ?", key).
		First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Scheduled post", key)
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

func (r *scheduledPostRepository) DueIDs(ctx context.Context, now time.Time, limit int) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.ScheduledPost{}).
		Where("status = ? AND scheduled_at <= ?", models.ScheduleStatusPending, now).
		Order("scheduled_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *scheduledPostRepository) Materialize(ctx context.Context, id uint, now time.Time) (*models.ScheduledPost, error) {
	var req models.ScheduledPost

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock serializes concurrent deliveries of the same request.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Scheduled post", id)
			}
			return err
		}

		switch req.Status {
		case models.ScheduleStatusPublished, models.ScheduleStatusFailed:
			// Terminal: redelivery is a detected no-op.
			return nil
		}

		if req.ScheduledAt.After(now) {
			return ErrNotDue
		}

		// The post's created_at is the caller-supplied scheduled instant,
		// never the publisher's wall clock.
		post := &models.Post{
			ProfileID: req.ProfileID,
			Content:   req.Content,
			ImageURL:  req.ImageURL,
			CreatedAt: req.ScheduledAt,
		}
		if err := tx.Create(post).Error; err != nil {
			return err
		}

		req.Status = models.ScheduleStatusPublished
		req.PostID = &post.ID
		return tx.Model(&models.ScheduledPost{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":  models.ScheduleStatusPublished,
				"post_id": post.ID,
			}).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.Is(err, ErrNotDue) || errors.As(err, &appErr) {
			return nil, err
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

func (r *scheduledPostRepository) RecordFailure(ctx context.Context, id uint, cause error, maxAttempts int) (*models.ScheduledPost, error) {
	var req models.ScheduledPost

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Scheduled post", id)
			}
			return err
		}

		req.Attempts++
		req.LastError = cause.Error()
		if req.Attempts >= maxAttempts {
			req.Status = models.ScheduleStatusFailed
		}
		return tx.Model(&models.ScheduledPost{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"attempts":   req.Attempts,
				"last_error": req.LastError,
				"status":     req.Status,
			}).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

func (r *scheduledPostRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ScheduledPost{}).
		Where("status = ?", models.ScheduleStatusPending).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
