// Package wallet is the read side of wallets. All balance mutation goes
// through the money-movement engine; this service only renders state.
package wallet

import (
	"context"
	"time"

	"github.com/google/uuid"

	"payvault/internal/models"
	"payvault/internal/repositories"
)

// Overview is a wallet with its owner's public profile attached.
type Overview struct {
	ID        uuid.UUID          `json:"id"`
	Balance   models.Money       `json:"balance"`
	Owner     models.UserSummary `json:"owner"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type Service interface {
	Overview(ctx context.Context, userID uuid.UUID) (*Overview, error)
	Balance(ctx context.Context, userID uuid.UUID) (models.Money, error)
}

type service struct {
	wallets repositories.WalletRepository
	users   repositories.UserRepository
}

func NewService(wallets repositories.WalletRepository, users repositories.UserRepository) Service {
	return &service{wallets: wallets, users: users}
}

func (s *service) Overview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	w, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Overview{
		ID:        w.ID,
		Balance:   models.NewMoney(w.Balance),
		Owner:     owner.Summary(),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}, nil
}

func (s *service) Balance(ctx context.Context, userID uuid.UUID) (models.Money, error) {
	w, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		return models.Money{}, err
	}
	return models.NewMoney(w.Balance), nil
}
