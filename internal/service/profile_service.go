package service

import (
	"context"
	"strings"

	"ripple/internal/models"
	"ripple/internal/repository"
)

// ProfileService handles profile reads and owner-scoped updates.
type ProfileService struct {
	profileRepo repository.ProfileRepository
}

type UpdateProfileInput struct {
	ProfileID uint
	ActorID   uint
	Username  string
	Bio       *string
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

func (s *ProfileService) GetProfile(ctx context.Context, id uint) (*models.Profile, error) {
	return s.profileRepo.GetByID(ctx, id)
}

// SearchProfiles lists profiles, optionally narrowed by a case-insensitive
// username substring.
func (s *ProfileService) SearchProfiles(ctx context.Context, username string, limit, offset int) ([]*models.Profile, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.profileRepo.Search(ctx, username, limit, offset)
}

// UpdateProfile applies owner-scoped edits to username and biography.
func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, in.ProfileID)
	if err != nil {
		return nil, err
	}
	if profile.ID != in.ActorID {
		return nil, models.NewUnauthorizedError("You can only update your own profile")
	}

	if in.Username != "" {
		username := strings.TrimSpace(in.Username)
		if username == "" {
			return nil, models.NewValidationError("Username cannot be blank")
		}
		if len(username) > 64 {
			return nil, models.NewValidationError("Username too long (max 64 characters)")
		}
		profile.Username = username
	}
	if in.Bio != nil {
		profile.Bio = *in.Bio
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
