package service

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/repository"
)

// GraphService enforces the follow/unfollow invariants of the social graph.
// Edge mutations are atomic check-then-mutate steps: the repository reports
// whether the edge set changed, and the uniqueness constraint on
// (follower, followee) is the race-safety mechanism, not in-process locking.
type GraphService struct {
	followRepo  repository.FollowRepository
	profileRepo repository.ProfileRepository
}

func NewGraphService(followRepo repository.FollowRepository, profileRepo repository.ProfileRepository) *GraphService {
	return &GraphService{
		followRepo:  followRepo,
		profileRepo: profileRepo,
	}
}

// Follow adds a directed edge from actor to target. A self-follow is rejected
// before touching storage; a duplicate follow is an explicit error so callers
// can distinguish "new follow" from "no-op".
func (s *GraphService) Follow(ctx context.Context, actorID, targetID uint) error {
	if actorID == targetID {
		return models.NewSelfFollowError()
	}
	if _, err := s.profileRepo.GetByID(ctx, targetID); err != nil {
		return err
	}

	added, err := s.followRepo.Add(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if !added {
		return models.NewAlreadyFollowingError()
	}
	return nil
}

// Unfollow removes the edge from actor to target. Unfollowing has no effect on
// any other relation in the graph.
func (s *GraphService) Unfollow(ctx context.Context, actorID, targetID uint) error {
	if _, err := s.profileRepo.GetByID(ctx, targetID); err != nil {
		return err
	}

	removed, err := s.followRepo.Remove(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotFollowingError()
	}
	return nil
}

// IsFollowing is a pure query with no side effects.
func (s *GraphService) IsFollowing(ctx context.Context, actorID, targetID uint) (bool, error) {
	return s.followRepo.Exists(ctx, actorID, targetID)
}

// Following returns the profiles the given profile follows.
func (s *GraphService) Following(ctx context.Context, profileID uint) ([]models.Profile, error) {
	if _, err := s.profileRepo.GetByID(ctx, profileID); err != nil {
		return nil, err
	}
	return s.followRepo.Following(ctx, profileID)
}

// Followers returns the profiles following the given profile.
func (s *GraphService) Followers(ctx context.Context, profileID uint) ([]models.Profile, error) {
	if _, err := s.profileRepo.GetByID(ctx, profileID); err != nil {
		return nil, err
	}
	return s.followRepo.Followers(ctx, profileID)
}
