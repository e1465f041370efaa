package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTypeTransfer   TransactionType = "transfer"
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeReversal   TransactionType = "reversal"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusReversed  TransactionStatus = "reversed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is one immutable money movement event. The only allowed
// mutation after completion is the completed -> reversed transition, which
// also sets ReversalTransactionID on the original row.
type Transaction struct {
	ID                    uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Amount                decimal.Decimal   `gorm:"type:numeric(10,2);not null" json:"amount"`
	Type                  TransactionType   `gorm:"type:varchar(16);not null;default:'transfer'" json:"type"`
	Status                TransactionStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	Description           string            `json:"description"`
	FromUserID            uuid.UUID         `gorm:"type:uuid;not null;index" json:"from_user_id"`
	ToUserID              uuid.UUID         `gorm:"type:uuid;not null;index" json:"to_user_id"`
	ReversalTransactionID *uuid.UUID        `gorm:"type:uuid" json:"reversal_transaction_id,omitempty"`
	FromUser              *User             `gorm:"foreignKey:FromUserID" json:"-"`
	ToUser                *User             `gorm:"foreignKey:ToUserID" json:"-"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Involves reports whether userID is a party to the transaction.
func (t *Transaction) Involves(userID uuid.UUID) bool {
	return t.FromUserID == userID || t.ToUserID == userID
}

// IsExternal reports whether the transaction models money entering or
// leaving the system; those rows are self-referencing.
func (t *Transaction) IsExternal() bool {
	return t.Type == TransactionTypeDeposit || t.Type == TransactionTypeWithdrawal
}
