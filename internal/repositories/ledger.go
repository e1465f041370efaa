package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "payvault/internal/errors"
	"payvault/internal/models"
)

type ledgerStore struct {
	db *gorm.DB
}

// NewLedgerStore wraps db in the engine's storage contract.
func NewLedgerStore(db *gorm.DB) LedgerStore {
	return &ledgerStore{db: db}
}

func (s *ledgerStore) ExecuteInTransaction(ctx context.Context, fn func(LedgerTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerTx{db: tx})
	})
}

func (s *ledgerStore) TransactionWithParties(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var t models.Transaction
	err := s.db.WithContext(ctx).
		Preload("FromUser").
		Preload("ToUser").
		First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}
	return &t, nil
}

// ledgerTx implements LedgerTx on a gorm transaction handle.
type ledgerTx struct {
	db *gorm.DB
}

func (tx *ledgerTx) UserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := tx.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (tx *ledgerTx) WalletForUpdate(userID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := tx.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&wallet, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return &wallet, nil
}

func (tx *ledgerTx) TransactionForUpdate(id uuid.UUID) (*models.Transaction, error) {
	var t models.Transaction
	err := tx.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to lock transaction: %w", err)
	}
	return &t, nil
}

func (tx *ledgerTx) CreateTransaction(t *models.Transaction) error {
	if err := tx.db.Create(t).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (tx *ledgerTx) CreditBalance(userID uuid.UUID, amount decimal.Decimal) error {
	res := tx.db.Model(&models.Wallet{}).
		Where("user_id = ?", userID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to credit wallet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrWalletNotFound
	}
	return nil
}

func (tx *ledgerTx) DebitBalance(userID uuid.UUID, amount decimal.Decimal) error {
	res := tx.db.Model(&models.Wallet{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to debit wallet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrInsufficientFunds
	}
	return nil
}

func (tx *ledgerTx) MarkTransactionCompleted(id uuid.UUID) error {
	err := tx.db.Model(&models.Transaction{}).
		Where("id = ?", id).
		Update("status", models.TransactionStatusCompleted).Error
	if err != nil {
		return fmt.Errorf("failed to complete transaction: %w", err)
	}
	return nil
}

func (tx *ledgerTx) MarkTransactionReversed(originalID, reversalID uuid.UUID) error {
	err := tx.db.Model(&models.Transaction{}).
		Where("id = ?", originalID).
		Updates(map[string]interface{}{
			"status":                  models.TransactionStatusReversed,
			"reversal_transaction_id": reversalID,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark transaction reversed: %w", err)
	}
	return nil
}
