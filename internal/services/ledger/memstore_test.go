package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "payvault/internal/errors"
	"payvault/internal/models"
	"payvault/internal/repositories"
)

// memStore is an in-memory LedgerStore. A unit of work holds the store
// mutex for its whole duration, which gives the same atomicity and
// isolation the engine gets from row locks in a real database, and a
// snapshot taken at the start backs rollback on error.
type memStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*models.User
	wallets      map[uuid.UUID]*models.Wallet
	transactions map[uuid.UUID]*models.Transaction
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[uuid.UUID]*models.User),
		wallets:      make(map[uuid.UUID]*models.Wallet),
		transactions: make(map[uuid.UUID]*models.Transaction),
	}
}

func (s *memStore) addUser(name string, balance string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.users[id] = &models.User{ID: id, Name: name, Email: name + "@example.com"}
	s.wallets[id] = &models.Wallet{ID: uuid.New(), UserID: id, Balance: decimal.RequireFromString(balance)}
	return id
}

func (s *memStore) balance(userID uuid.UUID) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallets[userID].Balance
}

func (s *memStore) totalBalance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, w := range s.wallets {
		total = total.Add(w.Balance)
	}
	return total
}

func (s *memStore) transaction(id uuid.UUID) *models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok {
		return nil
	}
	copied := *t
	return &copied
}

func (s *memStore) transactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transactions)
}

func (s *memStore) ExecuteInTransaction(_ context.Context, fn func(repositories.LedgerTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	walletSnap := make(map[uuid.UUID]*models.Wallet, len(s.wallets))
	for id, w := range s.wallets {
		copied := *w
		walletSnap[id] = &copied
	}
	txSnap := make(map[uuid.UUID]*models.Transaction, len(s.transactions))
	for id, t := range s.transactions {
		copied := *t
		txSnap[id] = &copied
	}

	if err := fn(&memTx{store: s}); err != nil {
		s.wallets = walletSnap
		s.transactions = txSnap
		return err
	}
	return nil
}

func (s *memStore) TransactionWithParties(_ context.Context, id uuid.UUID) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok {
		return nil, apperrors.ErrTransactionNotFound
	}
	copied := *t
	copied.FromUser = s.users[t.FromUserID]
	copied.ToUser = s.users[t.ToUserID]
	return &copied, nil
}

// memTx operates on the store directly; the store mutex is already held
// for the lifetime of the unit of work.
type memTx struct {
	store *memStore
}

func (tx *memTx) UserByID(id uuid.UUID) (*models.User, error) {
	u, ok := tx.store.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (tx *memTx) WalletForUpdate(userID uuid.UUID) (*models.Wallet, error) {
	w, ok := tx.store.wallets[userID]
	if !ok {
		return nil, apperrors.ErrWalletNotFound
	}
	copied := *w
	return &copied, nil
}

func (tx *memTx) TransactionForUpdate(id uuid.UUID) (*models.Transaction, error) {
	t, ok := tx.store.transactions[id]
	if !ok {
		return nil, apperrors.ErrTransactionNotFound
	}
	copied := *t
	return &copied, nil
}

func (tx *memTx) CreateTransaction(t *models.Transaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	copied := *t
	tx.store.transactions[t.ID] = &copied
	return nil
}

func (tx *memTx) CreditBalance(userID uuid.UUID, amount decimal.Decimal) error {
	w, ok := tx.store.wallets[userID]
	if !ok {
		return apperrors.ErrWalletNotFound
	}
	w.Balance = w.Balance.Add(amount)
	return nil
}

func (tx *memTx) DebitBalance(userID uuid.UUID, amount decimal.Decimal) error {
	w, ok := tx.store.wallets[userID]
	if !ok {
		return apperrors.ErrWalletNotFound
	}
	if w.Balance.LessThan(amount) {
		return apperrors.ErrInsufficientFunds
	}
	w.Balance = w.Balance.Sub(amount)
	return nil
}

func (tx *memTx) MarkTransactionCompleted(id uuid.UUID) error {
	t, ok := tx.store.transactions[id]
	if !ok {
		return apperrors.ErrTransactionNotFound
	}
	t.Status = models.TransactionStatusCompleted
	return nil
}

func (tx *memTx) MarkTransactionReversed(originalID, reversalID uuid.UUID) error {
	t, ok := tx.store.transactions[originalID]
	if !ok {
		return apperrors.ErrTransactionNotFound
	}
	t.Status = models.TransactionStatusReversed
	t.ReversalTransactionID = &reversalID
	return nil
}
