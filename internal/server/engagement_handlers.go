// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ToggleLike handles POST /api/posts/:id/like. The same endpoint likes and
// unlikes: the response reports which way the toggle went.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	profileID, err := s.currentProfileID(c)
	if err != nil {
		return nil
	}

	result, err := s.engagementService.ToggleLike(c.Context(), profileID, id)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(result)
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	profileID, err := s.currentProfileID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.engagementService.AddComment(c.Context(), service.AddCommentInput{
		ProfileID: profileID,
		PostID:    id,
		Content:   req.Content,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.engagementService.ListComments(c.Context(), id)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}

	return c.JSON(comments)
}
