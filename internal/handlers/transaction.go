package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"payvault/internal/middleware"
	"payvault/internal/models"
	"payvault/internal/services/ledger"
	"payvault/internal/services/transaction"
	"payvault/internal/utils"
)

type TransactionHandler struct {
	ledger  ledger.Service
	queries transaction.Service
}

func NewTransactionHandler(ledgerSvc ledger.Service, queries transaction.Service) *TransactionHandler {
	return &TransactionHandler{ledger: ledgerSvc, queries: queries}
}

type transferRequest struct {
	ToUserID    uuid.UUID    `json:"to_user_id"`
	Amount      models.Money `json:"amount"`
	Description string       `json:"description"`
}

func (h *TransactionHandler) Transfer(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "authentication required")
	}

	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if req.ToUserID == uuid.Nil {
		return utils.BadRequest(c, "to_user_id is required")
	}

	created, err := h.ledger.Transfer(c.Context(), userID, req.ToUserID, req.Amount.Decimal, req.Description)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Created(c, transaction.ViewOf(created, userID))
}

func (h *TransactionHandler) Reverse(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "authentication required")
	}

	transactionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid transaction id")
	}

	reversal, err := h.ledger.Reverse(c.Context(), transactionID, userID)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Created(c, transaction.ViewOf(reversal, userID))
}

func (h *TransactionHandler) List(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "authentication required")
	}

	views, err := h.queries.History(c.Context(), userID)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"transactions": views,
		"count":        len(views),
	})
}

func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "authentication required")
	}

	transactionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid transaction id")
	}

	view, err := h.queries.GetByID(c.Context(), transactionID, userID)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, view)
}
