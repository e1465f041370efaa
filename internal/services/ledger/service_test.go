package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "payvault/internal/errors"
	"payvault/internal/models"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTransferMovesFunds(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("Alice", "1000.00")
	bob := store.addUser("Bob", "0.00")
	svc := NewService(store, nil)

	tx, err := svc.Transfer(context.Background(), alice, bob, amt("150.50"), "")
	require.NoError(t, err)

	assert.Equal(t, models.TransactionTypeTransfer, tx.Type)
	assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
	assert.Equal(t, alice, tx.FromUserID)
	assert.Equal(t, bob, tx.ToUserID)
	assert.Equal(t, "Transfer to Bob", tx.Description)
	assert.True(t, tx.Amount.Equal(amt("150.50")))
	require.NotNil(t, tx.FromUser)
	require.NotNil(t, tx.ToUser)
	assert.Equal(t, "Alice", tx.FromUser.Name)

	assert.True(t, store.balance(alice).Equal(amt("849.50")))
	assert.True(t, store.balance(bob).Equal(amt("150.50")))
}

func TestTransferKeepsCustomDescription(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("Alice", "100.00")
	bob := store.addUser("Bob", "0.00")
	svc := NewService(store, nil)

	tx, err := svc.Transfer(context.Background(), alice, bob, amt("10.00"), "rent")
	require.NoError(t, err)
	assert.Equal(t, "rent", tx.Description)
}

func TestTransferInsufficientFunds(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("Alice", "100.00")
	bob := store.addUser("Bob", "0.00")
	svc := NewService(store, nil)

	_, err := svc.Transfer(context.Background(), alice, bob, amt("150.50"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInsufficientFunds))
	assert.Equal(t, apperrors.KindInsufficientFunds, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "100.00")

	// Nothing moved and nothing was recorded.
	assert.True(t, store.balance(alice).Equal(amt("100.00")))
	assert.True(t, store.balance(bob).Equal(amt("0.00")))
	assert.Equal(t, 0, store.transactionCount())
}

func TestTransferToSelfRejected(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("Alice", "100.00")
	svc := NewService(store, nil)

	_, err := svc.Transfer(context.Background(), alice, alice, amt("10.00"), "")
	assert.True(t, errors.Is(err, apperrors.ErrSelfTransfer))
}

func TestTransferInvalidAmounts(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("Alice", "100.00")
	bob := store.addUser("Bob", "0.00")
	svc := NewService(store, nil)

	for _, raw := range []string{"0", "-5", "10.555"} {
		_, err := svc.Transfer(context.Background(), alice, bob, amt(raw), "")
		assert.True(t, errors.Is(err, apperrors.ErrInvalidAmount), "amount %s", raw)
	}
	assert.Equal(t, 0, store.transactionCount())
}

func TestTransferUnknownRecipient(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("Alice", "100.00")
	svc := NewService(store, nil)

	_, err := svc.Transfer(context.Background(), alice, uuid.New(), amt("10.00"), "")
	assert.True(t, errors.Is(err, apperrors.ErrUserNotFound))
}

func TestDepositAndWithdraw(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("Alice", "0.00")
	svc := NewService(store, nil)

	dep, err := svc.Deposit(context.Background(), alice, amt("200.25"), "")
	require.NoError(t, err)
	assert.Equal(t, "deposit", dep.Operation)
	assert.Equal(t, "Wallet deposit", dep.Description)
	assert.True(t, dep.PreviousBalance.Equal(amt("0")))
	assert.True(t, dep.NewBalance.Equal(amt("200.25")))

	wd, err := svc.Withdraw(context.Background(), alice, amt("50.00"), "")
	require.NoError(t, err)
	assert.Equal(t, "withdrawal", wd.Operation)
	assert.Equal(t, "Wallet withdrawal", wd.Description)
	assert.True(t, wd.PreviousBalance.Equal(amt("200.25")))
	assert.True(t, wd.NewBalance.Equal(amt("150.25")))
	assert.True(t, store.balance(alice).Equal(amt("150.25")))

	// External movements are recorded as self-referencing rows.
	row := store.transaction(dep.TransactionID)
	require.NotNil(t, row)
	assert.Equal(t, models.TransactionTypeDeposit, row.Type)
	assert.Equal(t, models.TransactionStatusCompleted, row.Status)
	assert.Equal(t, alice, row.FromUserID)
	assert.Equal(t, alice, row.ToUserID)
	assert.True(t, row.IsExternal())
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("Alice", "150.25")
	svc := NewService(store, nil)

	_, err := svc.Withdraw(context.Background(), alice, amt("1000.00"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInsufficientFunds))
	assert.Contains(t, err.Error(), "150.25")
	assert.True(t, store.balance(alice).Equal(amt("150.25")))
	assert.Equal(t, 0, store.transactionCount())
}

func TestReverseRestoresBalances(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("Alice", "1000.00")
	bob := store.addUser("Bob", "500.00")
	svc := NewService(store, nil)

	original, err := svc.Transfer(context.Background(), alice, bob, amt("150.50"), "")
	require.NoError(t, err)

	reversal, err := svc.Reverse(context.Background(), original.ID, alice)
	require.NoError(t, err)

	assert.Equal(t, models.TransactionTypeReversal, reversal.Type)
	assert.Equal(t, models.TransactionStatusCompleted, reversal.Status)
	assert.Equal(t, bob, reversal.FromUserID)
	assert.Equal(t, alice, reversal.ToUserID)
	assert.True(t, reversal.Amount.Equal(amt("150.50")))
	assert.Contains(t, reversal.Description, original.ID.String())

	updated := store.transaction(original.ID)
	require.NotNil(t, updated)
	assert.Equal(t, models.TransactionStatusReversed, updated.Status)
	require.NotNil(t, updated.ReversalTransactionID)
	assert.Equal(t, reversal.ID, *updated.ReversalTransactionID)
	// Only the original points at the reversal, never the other way.
	assert.Nil(t, reversal.ReversalTransactionID)

	assert.True(t, store.balance(alice).Equal(amt("1000.00")))
	assert.True(t, store.balance(bob).Equal(amt("500.00")))
}

func TestReverseByRecipient(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("Alice", "1000.00")
	bob := store.addUser("Bob", "0.00")
	svc := NewService(store, nil)

	original, err := svc.Transfer(context.Background(), alice, bob, amt("25.00"), "")
	require.NoError(t, err)

	_, err = svc.Reverse(context.Background(), original.ID, bob)
	require.NoError(t, err)
	assert.True(t, store.balance(alice).Equal(amt("1000.00")))
}

func TestReverseTwiceRejected(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("Alice", "1000.00")
	bob := store.addUser("Bob", "0.00")
	svc := NewService(store, nil)

	original, err := svc.Transfer(context.Background(), alice, bob, amt("100.00"), "")
	require.NoError(t, err)

	_, err = svc.Reverse(context.Background(), original.ID, alice)
	require.NoError(t, err)

	_, err = svc.Reverse(context.Background(), original.ID, alice)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyReversed))
	assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))

	// Balances stay at the post-reversal state.
	assert.True(t, store.balance(alice).Equal(amt("1000.00")))
	assert.True(t, store.balance(bob).Equal(amt("0.00")))
}

func TestReverseByNonPartyForbidden(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("Alice", "1000.00")
	bob := store.addUser("Bob", "0.00")
	carol := store.addUser("Carol", "0.00")
	svc := NewService(store, nil)

	original, err := svc.Transfer(context.Background(), alice, bob, amt("10.00"), "")
	require.NoError(t, err)

	_, err = svc.Reverse(context.Background(), original.ID, carol)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotTransactionParty))
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestReverseRecipientLacksFunds(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("Alice", "1000.00")
	bob := store.addUser("Bob", "0.00")
	svc := NewService(store, nil)

	original, err := svc.Transfer(context.Background(), alice, bob, amt("100.00"), "")
	require.NoError(t, err)

	// Bob spends the money before the reversal is attempted.
	_, err = svc.Withdraw(context.Background(), bob, amt("60.00"), "")
	require.NoError(t, err)

	_, err = svc.Reverse(context.Background(), original.ID, alice)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInsufficientFunds))
	assert.Contains(t, err.Error(), "recipient lacks funds")

	// The failed reversal left the original untouched.
	assert.Equal(t, models.TransactionStatusCompleted, store.transaction(original.ID).Status)
	assert.True(t, store.balance(bob).Equal(amt("40.00")))
}

func TestReverseUnknownTransaction(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("Alice", "0.00")
	svc := NewService(store, nil)

	_, err := svc.Reverse(context.Background(), uuid.New(), alice)
	assert.True(t, errors.Is(err, apperrors.ErrTransactionNotFound))
}

func TestConcurrentTransfersConserveTotal(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("Alice", "1000.00")
	bob := store.addUser("Bob", "1000.00")
	svc := NewService(store, nil)

	before := store.totalBalance()

	const workers = 32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Half the workers push each way so both wallets see
			// contention from both directions.
			from, to := alice, bob
			if i%2 == 1 {
				from, to = bob, alice
			}
			_, err := svc.Transfer(context.Background(), from, to, amt("10.00"), "")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.True(t, store.totalBalance().Equal(before))
	assert.True(t, store.balance(alice).Equal(amt("1000.00")))
	assert.True(t, store.balance(bob).Equal(amt("1000.00")))
	assert.Equal(t, workers, store.transactionCount())
}

func TestConcurrentOverdrawNeverGoesNegative(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("Alice", "100.00")
	bob := store.addUser("Bob", "0.00")
	svc := NewService(store, nil)

	// 20 attempts of 30.00 against a 100.00 balance: exactly 3 can win.
	const attempts = 20
	var wg sync.WaitGroup
	var succeeded int32
	var mu sync.Mutex
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Transfer(context.Background(), alice, bob, amt("30.00"), ""); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 3, succeeded)
	assert.True(t, store.balance(alice).Equal(amt("10.00")))
	assert.True(t, store.balance(bob).Equal(amt("90.00")))
}
