// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"errors"
	"strconv"
	"strings"

	"ripple/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// bearerToken extracts the raw token from an "Authorization: Bearer ..." header.
func bearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get("Authorization")
	if header == "" {
		return "", errors.New("Authorization header required")
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("Invalid authorization header format")
	}
	return parts[1], nil
}

// claimID parses a decimal identifier claim. JWT claims are strings on the
// wire; profile IDs ride along as a convenience claim minted by this server.
func claimID(claims jwt.MapClaims, name string) (uint, bool) {
	raw, ok := claims[name]
	if !ok {
		return 0, false
	}
	s, ok := raw.(string)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// AuthRequired enforces a valid bearer token and stores the actor's user ID
// (and profile ID when the token carries one) in the request locals.
func AuthRequired(c *fiber.Ctx) error {
	unauthorized := func(msg string) error {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
	}

	tokenString, err := bearerToken(c)
	if err != nil {
		return unauthorized(err.Error())
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return unauthorized("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return unauthorized("Invalid token claims")
	}

	userID, ok := claimID(claims, "sub")
	if !ok {
		return unauthorized("Invalid token subject")
	}
	c.Locals("userID", userID)

	if profileID, ok := claimID(claims, "profile"); ok {
		c.Locals("profileID", profileID)
	}

	return c.Next()
}
