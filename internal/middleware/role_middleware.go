package middleware

import (
	"workforce-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

// RequireRole rejects callers below the given rank. Must run after
// Auth.
func RequireRole(min model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(model.Role)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied"})
		}
		if role < min {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied: requires " + min.String() + " role or above"})
		}
		return c.Next()
	}
}
