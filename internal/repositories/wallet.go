package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "payvault/internal/errors"
	"payvault/internal/models"
	"payvault/internal/repositories/cache"
	"payvault/pkg/logger"
)

// WalletRepository is the read side of wallets; all balance mutation goes
// through LedgerStore units of work.
type WalletRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
}

type walletRepository struct {
	db    *gorm.DB
	cache *cache.Service
}

func NewWalletRepository(db *gorm.DB, cacheService *cache.Service) WalletRepository {
	return &walletRepository{db: db, cache: cacheService}
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	if r.cache != nil {
		if wallet, ok := r.cache.GetWallet(ctx, userID); ok {
			return wallet, nil
		}
	}

	var wallet models.Wallet
	if err := r.db.WithContext(ctx).First(&wallet, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.CacheWallet(ctx, &wallet); err != nil {
			logger.Warn("failed to cache wallet", logger.WithError(err))
		}
	}
	return &wallet, nil
}
