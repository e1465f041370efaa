// Package middleware provides HTTP middleware for the fiber application.
package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"payvault/internal/models"
	"payvault/internal/utils"
)

// RequireAuth validates the Bearer token and stores the user claims in
// the request context. Every protected route sits behind it.
func RequireAuth(c *fiber.Ctx) error {
	token, ok := utils.ExtractBearerToken(c.Get("Authorization"))
	if !ok {
		return utils.Unauthorized(c, "missing or malformed authorization header")
	}

	claims, err := utils.ParseToken(token)
	if err != nil {
		return utils.Unauthorized(c, "invalid or expired token")
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)
	return c.Next()
}

// UserID returns the authenticated user's id from the request context.
// It is only valid after RequireAuth has run.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals("userID").(uuid.UUID)
	return id, ok
}

// Claims returns the full token claims from the request context.
func Claims(c *fiber.Ctx) (*models.UserClaims, bool) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	return claims, ok
}
