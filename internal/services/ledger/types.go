package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"payvault/internal/models"
)

// Service is the money-movement engine.
type Service interface {
	Transfer(ctx context.Context, fromUserID, toUserID uuid.UUID, amount decimal.Decimal, description string) (*models.Transaction, error)
	Reverse(ctx context.Context, transactionID, requestingUserID uuid.UUID) (*models.Transaction, error)
	Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*BalanceOperation, error)
	Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*BalanceOperation, error)
}

// BalanceOperation reports a single-wallet movement. Previous and new
// balances come from the row read under lock, not from a re-query.
type BalanceOperation struct {
	TransactionID   uuid.UUID    `json:"transaction_id"`
	Operation       string       `json:"operation"`
	Amount          models.Money `json:"amount"`
	PreviousBalance models.Money `json:"previous_balance"`
	NewBalance      models.Money `json:"new_balance"`
	Description     string       `json:"description"`
	CreatedAt       time.Time    `json:"created_at"`
}

// CacheInvalidator drops read-side wallet caches after a committed
// balance mutation.
type CacheInvalidator interface {
	InvalidateWallets(ctx context.Context, userIDs ...uuid.UUID) error
}
