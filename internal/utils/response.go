package utils

import (
	"github.com/gofiber/fiber/v2"

	apperrors "payvault/internal/errors"
	"payvault/pkg/logger"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// Created sends a JSON response with status 201.
func Created(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusCreated, data)
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{"error": message})
}

// Unauthorized sends a JSON error response with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusUnauthorized, fiber.Map{"error": message})
}

// ValidationFailed sends a 400 with per-field messages.
func ValidationFailed(c *fiber.Ctx, fields map[string]string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{
		"error":  "validation failed",
		"fields": fields,
	})
}

// DomainError maps a service error onto its HTTP status. Unknown errors
// are logged and hidden behind a generic message.
func DomainError(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)
	if status == fiber.StatusInternalServerError {
		logger.Error("unhandled error", logger.WithError(err), logger.Fields{
			"path":   c.Path(),
			"method": c.Method(),
		})
		return Respond(c, status, fiber.Map{"error": "internal server error"})
	}
	return Respond(c, status, fiber.Map{
		"error": err.Error(),
		"code":  apperrors.CodeOf(err),
	})
}
