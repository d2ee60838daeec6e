// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SearchProfiles handles GET /api/profiles?username=...
func (s *Server) SearchProfiles(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	profiles, err := s.profileService.SearchProfiles(
		c.Context(), c.Query("username"), page.Limit, page.Offset)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	if profiles == nil {
		profiles = []*models.Profile{}
	}

	return c.JSON(profiles)
}

// GetProfile handles GET /api/profiles/:id
func (s *Server) GetProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.GetProfile(c.Context(), id)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// GetMyProfile handles GET /api/profiles/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profileID, err := s.currentProfileID(c)
	if err != nil {
		return nil
	}

	profile, err := s.profileService.GetProfile(c.Context(), profileID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/profiles/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	profileID, err := s.currentProfileID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Username string  `json:"username"`
		Bio      *string `json:"bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		ProfileID: profileID,
		ActorID:   profileID,
		Username:  req.Username,
		Bio:       req.Bio,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// FollowProfile handles POST /api/profiles/:id/follow
func (s *Server) FollowProfile(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actorID, err := s.currentProfileID(c)
	if err != nil {
		return nil
	}

	if err := s.graphService.Follow(c.Context(), actorID, targetID); err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"following": true})
}

// UnfollowProfile handles POST /api/profiles/:id/unfollow
func (s *Server) UnfollowProfile(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actorID, err := s.currentProfileID(c)
	if err != nil {
		return nil
	}

	if err := s.graphService.Unfollow(c.Context(), actorID, targetID); err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"following": false})
}

// GetFollowers handles GET /api/profiles/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	followers, err := s.graphService.Followers(c.Context(), id)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	if followers == nil {
		followers = []models.Profile{}
	}

	return c.JSON(followers)
}

// GetFollowing handles GET /api/profiles/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.graphService.Following(c.Context(), id)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	if following == nil {
		following = []models.Profile{}
	}

	return c.JSON(following)
}
