package api

import (
	"strings"

	"github.com/example/taskboard/modules/auth"
	"github.com/gofiber/fiber/v2"
)

// UserContextKey is the locals key under which verified claims are stored.
const UserContextKey = "user"

// AuthMiddleware guards a route group: it extracts the bearer token,
// verifies it through the auth module and stores the resulting claims in
// the request locals.
func AuthMiddleware(authPort auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return rejectUnauthorized(c, "Authorization header is required")
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return rejectUnauthorized(c, "Expected Bearer token")
		}

		claims, err := authPort.ValidateToken(c.UserContext(), token)
		if err != nil {
			return rejectUnauthorized(c, "Invalid or expired token")
		}

		c.Locals(UserContextKey, claims)
		return c.Next()
	}
}

func rejectUnauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: message,
	})
}
