package middleware

import (
	"errors"
	"strings"

	"go-erp-sync/internal/repository"
	"go-erp-sync/internal/service"
	"go-erp-sync/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// AnonymousWriter is the identity stamped on writes made without a token.
const AnonymousWriter = "system"

// RequireAuth rejects requests without a token for the account's current session.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}
		return authenticate(c, userRepo, authHeader)
	}
}

// OptionalAuth authenticates when a token is present and lets anonymous
// requests through as AnonymousWriter.
func OptionalAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			c.Locals("user_email", AnonymousWriter)
			return c.Next()
		}
		return authenticate(c, userRepo, authHeader)
	}
}

func authenticate(c *fiber.Ctx, userRepo repository.UserRepository, authHeader string) error {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
	}

	_, claims, err := service.Authenticate(userRepo, parts[1])
	if err != nil {
		if errors.Is(err, jwt.ErrInvalidToken) {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	c.Locals("user_email", claims.Email)
	c.Locals("claims", claims)

	return c.Next()
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*jwt.Claims)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}
		if claims.Allows(requiredPrivilege) {
			return c.Next()
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires '" + requiredPrivilege + "' privilege",
		})
	}
}

// Writer returns the identity to stamp on writes for this request.
func Writer(c *fiber.Ctx) string {
	if email, ok := c.Locals("user_email").(string); ok && email != "" {
		return email
	}
	return AnonymousWriter
}
