package service

import (
	"context"
	"time"

	"ripple/internal/middleware"
	"ripple/internal/models"
	"ripple/internal/repository"

	"github.com/google/uuid"
)

// ScheduleQueue is the wake-up side of the scheduled publisher. Implemented by
// scheduler.Queue; the DB row stays the source of truth, so a failed nudge only
// delays publication until the next due-scan.
type ScheduleQueue interface {
	Enqueue(ctx context.Context, scheduleID uint) error
}

type PostService struct {
	postRepo  repository.PostRepository
	schedRepo repository.ScheduledPostRepository
	queue     ScheduleQueue
}

type CreatePostInput struct {
	ProfileID uint
	Content   string
	ImageURL  string
}

type SchedulePostInput struct {
	ProfileID      uint
	Content        string
	ImageURL       string
	ScheduledAt    time.Time
	IdempotencyKey string
}

func NewPostService(
	postRepo repository.PostRepository,
	schedRepo repository.ScheduledPostRepository,
	queue ScheduleQueue,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		schedRepo: schedRepo,
		queue:     queue,
	}
}

const maxContentLen = 10000

// CreatePost creates a post immediately.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}

	post := &models.Post{
		ProfileID: in.ProfileID,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.ProfileID)
}

// SchedulePost records a deferred-publication request. When the caller does
// not supply an idempotency key one is generated, which still protects against
// queue redelivery (the caller just loses cross-request dedup). A request
// whose key was seen before returns the stored request unchanged.
func (s *PostService) SchedulePost(ctx context.Context, in SchedulePostInput) (*models.ScheduledPost, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}
	if in.ScheduledAt.IsZero() {
		return nil, models.NewValidationError("scheduled_time is required")
	}

	key := in.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	req := &models.ScheduledPost{
		IdempotencyKey: key,
		ProfileID:      in.ProfileID,
		Content:        in.Content,
		ImageURL:       in.ImageURL,
		ScheduledAt:    in.ScheduledAt.UTC(),
		Status:         models.ScheduleStatusPending,
	}
	created, err := s.schedRepo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if created && s.queue != nil {
		if err := s.queue.Enqueue(ctx, req.ID); err != nil {
			// The due-scan will pick the row up; losing the nudge is not fatal.
			middleware.Logger.WarnContext(ctx, "failed to enqueue scheduled post nudge",
				"schedule_id", req.ID, "error", err.Error())
		}
	}

	return req, nil
}

// GetPost returns a single post with engagement counts for the viewer.
func (s *PostService) GetPost(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, viewerID)
}

// GetProfilePosts returns a profile's posts, newest first.
func (s *PostService) GetProfilePosts(ctx context.Context, profileID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	return s.postRepo.GetByProfileID(ctx, profileID, limit, offset, viewerID)
}

// AttachImage rewrites the post's image reference. Only the author may do so.
func (s *PostService) AttachImage(ctx context.Context, actorID, postID uint, imageURL string) (*models.Post, error) {
	if imageURL == "" {
		return nil, models.NewValidationError("image_url is required")
	}

	post, err := s.postRepo.GetByID(ctx, postID, actorID)
	if err != nil {
		return nil, err
	}
	if post.ProfileID != actorID {
		return nil, models.NewUnauthorizedError("You can only attach images to your own posts")
	}

	post.ImageURL = imageURL
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post and its subordinate comments and likes. Only the
// author may delete.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, actorID)
	if err != nil {
		return err
	}
	if post.ProfileID != actorID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}
