// Package cache wraps Redis with JSON serialization for the read-side
// caches. Cached values are best-effort: every miss or error falls
// through to Postgres.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"payvault/internal/models"
)

type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type Service struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(cfg *Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewService(client *redis.Client, defaultTTL time.Duration) *Service {
	return &Service{client: client, ttl: defaultTTL}
}

func (s *Service) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *Service) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get loads key into dest and reports whether it was present.
func (s *Service) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *Service) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *Service) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Wallet caching

func (s *Service) CacheWallet(ctx context.Context, wallet *models.Wallet) error {
	return s.Set(ctx, s.GenerateKey("wallet", "user", wallet.UserID), wallet)
}

func (s *Service) GetWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, bool) {
	var wallet models.Wallet
	found, err := s.Get(ctx, s.GenerateKey("wallet", "user", userID), &wallet)
	if err != nil || !found {
		return nil, false
	}
	return &wallet, true
}

// InvalidateWallets drops the cached wallet of every given user. Called
// after each committed balance mutation.
func (s *Service) InvalidateWallets(ctx context.Context, userIDs ...uuid.UUID) error {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, s.GenerateKey("wallet", "user", id))
	}
	return s.Delete(ctx, keys...)
}

// User caching

func (s *Service) CacheUser(ctx context.Context, user *models.User) error {
	return s.Set(ctx, s.GenerateKey("user", "id", user.ID), user)
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*models.User, bool) {
	var user models.User
	found, err := s.Get(ctx, s.GenerateKey("user", "id", id), &user)
	if err != nil || !found {
		return nil, false
	}
	return &user, true
}

func (s *Service) InvalidateUser(ctx context.Context, id uuid.UUID) error {
	return s.Delete(ctx, s.GenerateKey("user", "id", id))
}

// FlushAll clears the cache, used on startup so stale balances never
// survive a deploy.
func (s *Service) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *Service) Close() error {
	return s.client.Close()
}
