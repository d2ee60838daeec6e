// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"time"

	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/posts. The result is scoped to the caller's
// visibility set: its own posts plus the posts of every profile it follows.
// Optional ?author= and ?title= narrow by case-insensitive substring.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	profileID, err := s.currentProfileID(c)
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	posts, err := s.feedService.Feed(c.Context(), profileID, service.FeedQuery{
		Author: c.Query("author"),
		Title:  c.Query("title"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// CreatePost handles POST /api/posts. A request carrying scheduled_time is a
// deferred publication: the post is recorded as a scheduled request and
// created by the publisher worker once the time arrives. scheduled_time must
// be RFC 3339 with an explicit UTC offset.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	profileID, err := s.currentProfileID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Content        string `json:"content"`
		ImageURL       string `json:"image_url,omitempty"`
		ScheduledTime  string `json:"scheduled_time,omitempty"`
		IdempotencyKey string `json:"idempotency_key,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.ScheduledTime == "" {
		post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
			ProfileID: profileID,
			Content:   req.Content,
			ImageURL:  req.ImageURL,
		})
		if err != nil {
			return s.respondServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(post)
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledTime)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("scheduled_time must be RFC 3339 with an explicit offset"))
	}

	sched, err := s.postService.SchedulePost(c.Context(), service.SchedulePostInput{
		ProfileID:      profileID,
		Content:        req.Content,
		ImageURL:       req.ImageURL,
		ScheduledAt:    scheduledAt,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(sched)
}

// GetLikedPosts handles GET /api/posts/liked
func (s *Server) GetLikedPosts(c *fiber.Ctx) error {
	profileID, err := s.currentProfileID(c)
	if err != nil {
		return nil
	}

	posts, err := s.feedService.LikedPosts(c.Context(), profileID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	profileID, err := s.currentProfileID(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id, profileID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(post)
}

// GetProfilePosts handles GET /api/profiles/:id/posts
func (s *Server) GetProfilePosts(c *fiber.Ctx) error {
	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	profileID, err := s.currentProfileID(c)
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	posts, err := s.postService.GetProfilePosts(c.Context(), authorID, page.Limit, page.Offset, profileID)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	return c.JSON(posts)
}

// AttachImage handles POST /api/posts/:id/image
func (s *Server) AttachImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	profileID, err := s.currentProfileID(c)
	if err != nil {
		return nil
	}

	var req struct {
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.AttachImage(c.Context(), profileID, id, req.ImageURL)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	profileID, err := s.currentProfileID(c)
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), profileID, id); err != nil {
		return s.respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
