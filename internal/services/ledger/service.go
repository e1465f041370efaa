package ledger

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "payvault/internal/errors"
	"payvault/internal/models"
	"payvault/internal/repositories"
	"payvault/pkg/logger"
)

type service struct {
	store repositories.LedgerStore
	cache CacheInvalidator
}

// NewService creates the money-movement engine. cache may be nil.
func NewService(store repositories.LedgerStore, cache CacheInvalidator) Service {
	if store == nil {
		panic("ledger store is required")
	}
	return &service{store: store, cache: cache}
}

func (s *service) Transfer(ctx context.Context, fromUserID, toUserID uuid.UUID, amount decimal.Decimal, description string) (*models.Transaction, error) {
	if err := CheckAmount(amount); err != nil {
		return nil, err
	}
	if fromUserID == toUserID {
		return nil, apperrors.ErrSelfTransfer
	}

	var created *models.Transaction
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.LedgerTx) error {
		if _, err := tx.UserByID(fromUserID); err != nil {
			return err
		}
		toUser, err := tx.UserByID(toUserID)
		if err != nil {
			return err
		}

		wallets, err := lockWallets(tx, fromUserID, toUserID)
		if err != nil {
			return err
		}
		fromWallet := wallets[fromUserID]
		if fromWallet.Balance.LessThan(amount) {
			return apperrors.InsufficientFunds(fromWallet.Balance.StringFixed(2))
		}

		if description == "" {
			description = "Transfer to " + toUser.Name
		}
		created = &models.Transaction{
			Amount:      amount,
			Type:        models.TransactionTypeTransfer,
			Status:      models.TransactionStatusPending,
			Description: description,
			FromUserID:  fromUserID,
			ToUserID:    toUserID,
		}
		if err := tx.CreateTransaction(created); err != nil {
			return err
		}

		if err := tx.DebitBalance(fromUserID, amount); err != nil {
			return err
		}
		if err := tx.CreditBalance(toUserID, amount); err != nil {
			return err
		}

		if err := tx.MarkTransactionCompleted(created.ID); err != nil {
			return err
		}
		created.Status = models.TransactionStatusCompleted
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, fromUserID, toUserID)
	return s.store.TransactionWithParties(ctx, created.ID)
}

func (s *service) Reverse(ctx context.Context, transactionID, requestingUserID uuid.UUID) (*models.Transaction, error) {
	var reversal *models.Transaction
	var fromUserID, toUserID uuid.UUID

	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.LedgerTx) error {
		original, err := tx.TransactionForUpdate(transactionID)
		if err != nil {
			return err
		}
		if !original.Involves(requestingUserID) {
			return apperrors.ErrNotTransactionParty
		}
		if original.Status == models.TransactionStatusReversed {
			return apperrors.ErrAlreadyReversed
		}
		if original.Status != models.TransactionStatusCompleted {
			return apperrors.ErrNotCompleted
		}

		fromUserID, toUserID = original.FromUserID, original.ToUserID
		wallets, err := lockWallets(tx, fromUserID, toUserID)
		if err != nil {
			return err
		}
		// The original recipient is the current holder of the funds.
		holder := wallets[toUserID]
		if holder.Balance.LessThan(original.Amount) {
			return apperrors.ReversalInsufficientFunds()
		}

		reversal = &models.Transaction{
			Amount:      original.Amount,
			Type:        models.TransactionTypeReversal,
			Status:      models.TransactionStatusPending,
			Description: fmt.Sprintf("Reversal of transaction %s", original.ID),
			FromUserID:  toUserID,
			ToUserID:    fromUserID,
		}
		if err := tx.CreateTransaction(reversal); err != nil {
			return err
		}

		if err := tx.DebitBalance(toUserID, original.Amount); err != nil {
			return err
		}
		if err := tx.CreditBalance(fromUserID, original.Amount); err != nil {
			return err
		}

		if err := tx.MarkTransactionCompleted(reversal.ID); err != nil {
			return err
		}
		reversal.Status = models.TransactionStatusCompleted
		return tx.MarkTransactionReversed(original.ID, reversal.ID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, fromUserID, toUserID)
	return s.store.TransactionWithParties(ctx, reversal.ID)
}

func (s *service) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*BalanceOperation, error) {
	if description == "" {
		description = "Wallet deposit"
	}
	return s.externalMovement(ctx, userID, amount, models.TransactionTypeDeposit, description)
}

func (s *service) Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*BalanceOperation, error) {
	if description == "" {
		description = "Wallet withdrawal"
	}
	return s.externalMovement(ctx, userID, amount, models.TransactionTypeWithdrawal, description)
}

// externalMovement models money entering or leaving the system as a
// self-referencing transaction on a single locked wallet.
func (s *service) externalMovement(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, txType models.TransactionType, description string) (*BalanceOperation, error) {
	if err := CheckAmount(amount); err != nil {
		return nil, err
	}

	var op *BalanceOperation
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.LedgerTx) error {
		wallet, err := tx.WalletForUpdate(userID)
		if err != nil {
			return err
		}
		previous := wallet.Balance

		if txType == models.TransactionTypeWithdrawal && previous.LessThan(amount) {
			return apperrors.InsufficientFunds(previous.StringFixed(2))
		}

		t := &models.Transaction{
			Amount:      amount,
			Type:        txType,
			Status:      models.TransactionStatusCompleted,
			Description: description,
			FromUserID:  userID,
			ToUserID:    userID,
		}
		if err := tx.CreateTransaction(t); err != nil {
			return err
		}

		newBalance := previous.Add(amount)
		if txType == models.TransactionTypeWithdrawal {
			newBalance = previous.Sub(amount)
			err = tx.DebitBalance(userID, amount)
		} else {
			err = tx.CreditBalance(userID, amount)
		}
		if err != nil {
			return err
		}

		op = &BalanceOperation{
			TransactionID:   t.ID,
			Operation:       string(txType),
			Amount:          models.NewMoney(amount),
			PreviousBalance: models.NewMoney(previous),
			NewBalance:      models.NewMoney(newBalance),
			Description:     description,
			CreatedAt:       t.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	return op, nil
}

// lockWallets acquires the wallet row locks in ascending user-id order,
// so concurrent opposite-direction movements between the same pair of
// users cannot deadlock.
func lockWallets(tx repositories.LedgerTx, a, b uuid.UUID) (map[uuid.UUID]*models.Wallet, error) {
	ids := []uuid.UUID{a}
	if b != a {
		ids = append(ids, b)
		if bytes.Compare(b[:], a[:]) < 0 {
			ids[0], ids[1] = ids[1], ids[0]
		}
	}

	wallets := make(map[uuid.UUID]*models.Wallet, len(ids))
	for _, id := range ids {
		w, err := tx.WalletForUpdate(id)
		if err != nil {
			return nil, err
		}
		wallets[id] = w
	}
	return wallets, nil
}

func (s *service) invalidate(ctx context.Context, userIDs ...uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateWallets(ctx, userIDs...); err != nil {
		logger.Warn("failed to invalidate wallet cache", logger.WithError(err))
	}
}
