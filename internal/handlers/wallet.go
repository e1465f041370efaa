package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"payvault/internal/middleware"
	"payvault/internal/models"
	"payvault/internal/services/ledger"
	"payvault/internal/services/transaction"
	"payvault/internal/services/wallet"
	"payvault/internal/utils"
)

type WalletHandler struct {
	wallets wallet.Service
	ledger  ledger.Service
	queries transaction.Service
}

func NewWalletHandler(wallets wallet.Service, ledgerSvc ledger.Service, queries transaction.Service) *WalletHandler {
	return &WalletHandler{wallets: wallets, ledger: ledgerSvc, queries: queries}
}

type amountRequest struct {
	Amount      models.Money `json:"amount"`
	Description string       `json:"description"`
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "authentication required")
	}

	overview, err := h.wallets.Overview(c.Context(), userID)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, overview)
}

func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "authentication required")
	}

	balance, err := h.wallets.Balance(c.Context(), userID)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, fiber.Map{"balance": balance})
}

func (h *WalletHandler) GetStats(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "authentication required")
	}

	stats, err := h.queries.Stats(c.Context(), userID)
	if err != nil {
		return utils.DomainError(c, err)
	}
	balance, err := h.wallets.Balance(c.Context(), userID)
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"current_balance":       balance,
		"total_received":        stats.TotalReceived,
		"total_sent":            stats.TotalSent,
		"received_count":        stats.ReceivedCount,
		"sent_count":            stats.SentCount,
		"total_transactions":    stats.TransactionCount,
		"last_transaction_date": stats.LastTransactionDate,
	})
}

func (h *WalletHandler) Deposit(c *fiber.Ctx) error {
	return h.externalMovement(c, h.ledger.Deposit)
}

func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	return h.externalMovement(c, h.ledger.Withdraw)
}

type movementFunc func(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*ledger.BalanceOperation, error)

func (h *WalletHandler) externalMovement(c *fiber.Ctx, move movementFunc) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "authentication required")
	}

	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	op, err := move(c.Context(), userID, req.Amount.Decimal, req.Description)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Created(c, op)
}
