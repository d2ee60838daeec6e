package service

import (
	"context"
	"strings"

	"ripple/internal/models"
	"ripple/internal/repository"
)

// EngagementService toggles likes and appends comments on posts.
type EngagementService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

type AddCommentInput struct {
	ProfileID uint
	PostID    uint
	Content   string
}

// LikeResult reports the state after a toggle.
type LikeResult struct {
	Liked bool         `json:"liked"`
	Post  *models.Post `json:"post"`
}

func NewEngagementService(postRepo repository.PostRepository, commentRepo repository.CommentRepository) *EngagementService {
	return &EngagementService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

// ToggleLike flips the actor's like membership on the post: liked posts get
// unliked, everything else gets liked. The repository's conflict-safe insert
// and delete guarantee exactly one net state change per call even when two
// toggles from the same actor race.
func (s *EngagementService) ToggleLike(ctx context.Context, actorID, postID uint) (*LikeResult, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}

	inserted, err := s.postRepo.Like(ctx, actorID, postID)
	if err != nil {
		return nil, err
	}
	liked := true
	if !inserted {
		// Row already existed: this call is an unlike.
		if _, err := s.postRepo.Unlike(ctx, actorID, postID); err != nil {
			return nil, err
		}
		liked = false
	}

	post, err := s.postRepo.GetByID(ctx, postID, actorID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: liked, Post: post}, nil
}

// AddComment appends a comment to the post. Content must be non-empty after
// trimming; the identifier and timestamp are server-assigned.
func (s *EngagementService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, in.PostID, 0); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewEmptyCommentError()
	}
	const maxCommentLen = 10000
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment := &models.Comment{
		Content:   content,
		ProfileID: in.ProfileID,
		PostID:    in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns a post's comments ordered by creation time descending.
func (s *EngagementService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}
