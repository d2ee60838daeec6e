// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"ripple/internal/middleware"
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	maxPaginationLimit = 100
)

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "postId" -> "post ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// currentProfileID resolves the acting profile for the authenticated request.
// The auth middleware stores the profile claim when the token carries one; a
// token without the claim falls back to a lookup by user ID.
// On failure it writes an error response and returns errResponseWritten.
func (s *Server) currentProfileID(c *fiber.Ctx) (uint, error) {
	if pid, ok := c.Locals("profileID").(uint); ok && pid != 0 {
		return pid, nil
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok || userID == 0 {
		_ = models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
		return 0, errResponseWritten
	}

	profile, err := s.profileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		_ = s.respondServiceError(c, err)
		return 0, errResponseWritten
	}

	c.Locals("profileID", profile.ID)
	ctx := context.WithValue(c.UserContext(), middleware.ProfileIDKey, profile.ID)
	c.SetUserContext(ctx)
	return profile.ID, nil
}

// respondServiceError maps a service-layer error onto an HTTP response.
// Ownership denials and missing resources produce an identical 404 so a
// caller cannot probe for the existence of content it may not touch.
func (s *Server) respondServiceError(c *fiber.Ctx, err error) error {
	appErr, ok := err.(*models.AppError)
	if !ok {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	switch appErr.Code {
	case models.CodeNotFound, models.CodeUnauthorized:
		return models.RespondWithError(c, fiber.StatusNotFound,
			&models.AppError{Code: models.CodeNotFound, Message: "Resource not found"})
	case models.CodeValidation, models.CodeSelfFollow, models.CodeAlreadyFollowing,
		models.CodeNotFollowing, models.CodeEmptyComment:
		return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
	default:
		return models.RespondWithError(c, fiber.StatusInternalServerError, appErr)
	}
}
