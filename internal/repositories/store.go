package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"payvault/internal/models"
)

// LedgerTx is the transaction-scoped handle passed into a unit of work.
// Every method runs inside the same storage transaction; wallet reads
// take an exclusive row lock held until commit or rollback.
type LedgerTx interface {
	UserByID(id uuid.UUID) (*models.User, error)
	WalletForUpdate(userID uuid.UUID) (*models.Wallet, error)
	TransactionForUpdate(id uuid.UUID) (*models.Transaction, error)
	CreateTransaction(t *models.Transaction) error
	// CreditBalance and DebitBalance mutate the balance with a relative
	// SQL expression, never an absolute value computed in Go. DebitBalance
	// fails with ErrInsufficientFunds when the guarded update matches no
	// row.
	CreditBalance(userID uuid.UUID, amount decimal.Decimal) error
	DebitBalance(userID uuid.UUID, amount decimal.Decimal) error
	MarkTransactionCompleted(id uuid.UUID) error
	MarkTransactionReversed(originalID, reversalID uuid.UUID) error
}

// LedgerStore is the storage contract of the money-movement engine.
type LedgerStore interface {
	// ExecuteInTransaction runs fn as one all-or-nothing unit of work.
	// Any error returned by fn rolls the whole unit back before it is
	// propagated to the caller.
	ExecuteInTransaction(ctx context.Context, fn func(LedgerTx) error) error
	// TransactionWithParties loads a committed transaction with both user
	// profiles attached.
	TransactionWithParties(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
}
