// Package auth implements registration, login and profile lookup.
// Registering a user also provisions their wallet; the two are created
// in one storage transaction and stay one-to-one for the account's life.
package auth

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "payvault/internal/errors"
	"payvault/internal/models"
	"payvault/internal/repositories"
	"payvault/internal/utils"
	"payvault/pkg/logger"
)

type Service interface {
	Register(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type service struct {
	users repositories.UserRepository
}

func NewService(users repositories.UserRepository) Service {
	return &service{users: users}
}

func (s *service) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.users.CreateWithWallet(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	logger.Info("user registered", logger.Fields{"user_id": user.ID.String()})
	return user, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Same answer whether the email or the password was wrong.
		return nil, "", apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.GetByIDWithWallet(ctx, userID)
}
