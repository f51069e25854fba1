// Package middleware provides authentication, logging, and rate-limiting
// middleware for the application.
package middleware

import (
	"strings"

	"storyforge/internal/auth"
	"storyforge/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Auth returns a middleware that enforces authentication for protected
// routes. It resolves the bearer token to a user ID and stores it in the
// request context; anything invalid short-circuits with 401 before a
// handler runs. It never touches the repositories.
func Auth(tokens *auth.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Authorization header required"))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Invalid authorization header format"))
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			return models.RespondWithError(c, err)
		}

		c.Locals("userID", userID)
		return c.Next()
	}
}

// UserID returns the authenticated user ID set by Auth. The second return
// is false on routes that skipped the middleware.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userID").(uint)
	return id, ok
}
