package service

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/repository"
)

// FeedService builds visibility-filtered, ordered post views. The visibility
// set for a viewer is itself plus every profile it follows; the only further
// narrowing is the two free-text axes the domain needs (author username and
// post content), evaluated as case-insensitive substrings.
type FeedService struct {
	postRepo    repository.PostRepository
	profileRepo repository.ProfileRepository
}

// FeedQuery carries the optional filters of a feed request.
type FeedQuery struct {
	Author string
	Title  string
	Limit  int
	Offset int
}

func NewFeedService(postRepo repository.PostRepository, profileRepo repository.ProfileRepository) *FeedService {
	return &FeedService{
		postRepo:    postRepo,
		profileRepo: profileRepo,
	}
}

// Feed returns the posts visible to the viewer, newest first. A viewer who
// follows no one and has posted nothing gets an empty, non-error result.
func (s *FeedService) Feed(ctx context.Context, viewerID uint, q FeedQuery) ([]*models.Post, error) {
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	posts, err := s.postRepo.Feed(ctx, viewerID, repository.FeedFilter{
		Author: q.Author,
		Title:  q.Title,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

// LikedPosts returns the posts the viewer liked, same ordering as the feed.
// Liked posts are not restricted by the visibility set: the viewer's own likes
// remain queryable regardless of current follow state.
func (s *FeedService) LikedPosts(ctx context.Context, viewerID uint) ([]*models.Post, error) {
	posts, err := s.postRepo.Liked(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}
