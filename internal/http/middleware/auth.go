package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"imagevault/internal/auth"
)

const (
	// UserIDLocalKey is the key under which the authenticated user's id is
	// stored in Fiber's context locals.
	UserIDLocalKey = "user_id"
	// RoleLocalKey is the key under which the authenticated user's role is
	// stored in Fiber's context locals.
	RoleLocalKey = "user_role"
)

// Auth validates the Bearer token on the request and stores the claims'
// user id and role in context locals for downstream handlers.
func Auth(tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "missing bearer token",
			})
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "invalid or expired token",
			})
		}

		c.Locals(UserIDLocalKey, claims.UserID)
		c.Locals(RoleLocalKey, claims.Role)

		return c.Next()
	}
}
