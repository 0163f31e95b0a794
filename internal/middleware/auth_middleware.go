package middleware

import (
	"strings"

	"workforce-backend/config"
	"workforce-backend/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Auth validates the bearer token and stores the caller's identity in
// the request context: user_id, org_id and role.
func Auth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return config.JWTSecret(), nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
	}
	orgID, ok := claims["org_id"].(float64)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
	}
	roleName, _ := claims["role"].(string)

	c.Locals("user_id", uint(userID))
	c.Locals("org_id", uint(orgID))
	// Unknown role strings fall back to the lowest rank.
	c.Locals("role", model.ParseRole(roleName))

	return c.Next()
}

// UserID reads the authenticated user id stored by Auth.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("user_id").(uint)
	return id
}

// OrgID reads the authenticated user's organization id stored by Auth.
func OrgID(c *fiber.Ctx) uint {
	id, _ := c.Locals("org_id").(uint)
	return id
}

// Role reads the authenticated user's role stored by Auth.
func Role(c *fiber.Ctx) model.Role {
	role, _ := c.Locals("role").(model.Role)
	return role
}
