package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "payvault/internal/errors"
	"payvault/internal/models"
)

// TransactionStats aggregates the completed ledger rows involving a user.
type TransactionStats struct {
	TotalReceived       decimal.Decimal
	TotalSent           decimal.Decimal
	ReceivedCount       int64
	SentCount           int64
	LastTransactionDate *time.Time
}

// TransactionRepository is the read side of the ledger. It never holds
// locks beyond a single query.
type TransactionRepository interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	StatsForUser(ctx context.Context, userID uuid.UUID) (*TransactionStats, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.WithContext(ctx).
		Preload("FromUser").
		Preload("ToUser").
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var t models.Transaction
	err := r.db.WithContext(ctx).
		Preload("FromUser").
		Preload("ToUser").
		First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &t, nil
}

func (r *transactionRepository) StatsForUser(ctx context.Context, userID uuid.UUID) (*TransactionStats, error) {
	stats := &TransactionStats{}

	received, count, err := r.sideTotals(ctx, "to_user_id", userID)
	if err != nil {
		return nil, err
	}
	stats.TotalReceived = received
	stats.ReceivedCount = count

	sent, count, err := r.sideTotals(ctx, "from_user_id", userID)
	if err != nil {
		return nil, err
	}
	stats.TotalSent = sent
	stats.SentCount = count

	var last sql.NullTime
	err = r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("(from_user_id = ? OR to_user_id = ?) AND status = ?",
			userID, userID, models.TransactionStatusCompleted).
		Select("MAX(created_at)").
		Scan(&last).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get last transaction date: %w", err)
	}
	if last.Valid {
		stats.LastTransactionDate = &last.Time
	}

	return stats, nil
}

func (r *transactionRepository) sideTotals(ctx context.Context, column string, userID uuid.UUID) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where(column+" = ? AND status = ?", userID, models.TransactionStatusCompleted).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(id) AS count").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to aggregate transactions: %w", err)
	}
	return row.Total, row.Count, nil
}
