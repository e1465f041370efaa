// Package handlers contains the HTTP layer: request parsing, auth
// context extraction and response shaping. All business rules live in
// the services underneath.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"payvault/internal/middleware"
	"payvault/internal/models"
	"payvault/internal/services/auth"
	"payvault/internal/utils"
	"payvault/internal/validation"
)

type AuthHandler struct {
	service auth.Service
}

func NewAuthHandler(service auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	if errs := validation.ValidateRegistration(req.Name, req.Email, req.Password); !errs.Ok() {
		return utils.ValidationFailed(c, errs)
	}

	user, token, err := h.service.Register(c.Context(), req.Name, validation.NormalizeEmail(req.Email), req.Password)
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Created(c, fiber.Map{
		"user":  user.Summary(),
		"token": token,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	if errs := validation.ValidateLogin(req.Email, req.Password); !errs.Ok() {
		return utils.ValidationFailed(c, errs)
	}

	user, token, err := h.service.Login(c.Context(), validation.NormalizeEmail(req.Email), req.Password)
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"user":  user.Summary(),
		"token": token,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "authentication required")
	}

	user, err := h.service.Profile(c.Context(), userID)
	if err != nil {
		return utils.DomainError(c, err)
	}

	resp := fiber.Map{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"created_at": user.CreatedAt,
	}
	if user.Wallet != nil {
		resp["wallet"] = fiber.Map{
			"id":      user.Wallet.ID,
			"balance": models.NewMoney(user.Wallet.Balance),
		}
	}
	return utils.Success(c, resp)
}
