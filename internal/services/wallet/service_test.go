package wallet

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vector-10/wallet-service-lendsqr/internal/models"
	"github.com/vector-10/wallet-service-lendsqr/internal/repositories"
)

// fakeStore is an in-memory LedgerRepository. WithinTransaction serializes
// transactions behind one mutex and restores a snapshot on error, mirroring
// the commit/rollback contract of the real store.
type fakeStore struct {
	mu           sync.Mutex
	wallets      map[uint]*models.Wallet // keyed by owner id
	users        map[string]*models.User
	transactions []models.Transaction
	nextTxID     uint

	failCreateTransaction bool
	userLookups           int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		wallets: make(map[uint]*models.Wallet),
		users:   make(map[string]*models.User),
	}
}

func (f *fakeStore) addWallet(ownerID uint, balance, minimum string) *models.Wallet {
	w := &models.Wallet{
		ID:             ownerID + 100,
		OwnerID:        ownerID,
		Balance:        decimal.RequireFromString(balance),
		MinimumBalance: decimal.RequireFromString(minimum),
		Currency:       "NGN",
	}
	f.wallets[ownerID] = w
	return w
}

func (f *fakeStore) addUser(id uint, email string) *models.User {
	u := &models.User{ID: id, Email: email, Status: models.UserStatusActive}
	f.users[email] = u
	return u
}

type storeState struct {
	wallets      map[uint]*models.Wallet
	transactions []models.Transaction
	nextTxID     uint
}

func (f *fakeStore) snapshot() storeState {
	wallets := make(map[uint]*models.Wallet, len(f.wallets))
	for k, v := range f.wallets {
		w := *v
		wallets[k] = &w
	}
	return storeState{
		wallets:      wallets,
		transactions: append([]models.Transaction(nil), f.transactions...),
		nextTxID:     f.nextTxID,
	}
}

func (f *fakeStore) restore(s storeState) {
	f.wallets = s.wallets
	f.transactions = s.transactions
	f.nextTxID = s.nextTxID
}

func (f *fakeStore) WithinTransaction(fn func(tx repositories.LedgerRepository) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	before := f.snapshot()
	if err := fn(&fakeTx{store: f}); err != nil {
		f.restore(before)
		return err
	}
	return nil
}

func (f *fakeStore) GetWalletByOwner(ownerID uint) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getWalletByOwner(ownerID)
}

func (f *fakeStore) GetWalletByID(id uint) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getWalletByID(id)
}

func (f *fakeStore) LockWalletByOwner(ownerID uint) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getWalletByOwner(ownerID)
}

func (f *fakeStore) GetUserByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userLookups++
	u, ok := f.users[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeStore) AdjustBalance(walletID uint, delta decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.adjustBalance(walletID, delta)
}

func (f *fakeStore) CreateTransaction(entry *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createTransaction(entry)
}

func (f *fakeStore) ListTransactionsForWallet(walletID uint) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Transaction
	for i := len(f.transactions) - 1; i >= 0; i-- {
		tx := f.transactions[i]
		if (tx.SourceWalletID != nil && *tx.SourceWalletID == walletID) ||
			(tx.DestinationWalletID != nil && *tx.DestinationWalletID == walletID) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeStore) getWalletByOwner(ownerID uint) (*models.Wallet, error) {
	w, ok := f.wallets[ownerID]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	copied := *w
	return &copied, nil
}

func (f *fakeStore) getWalletByID(id uint) (*models.Wallet, error) {
	for _, w := range f.wallets {
		if w.ID == id {
			copied := *w
			return &copied, nil
		}
	}
	return nil, repositories.ErrWalletNotFound
}

func (f *fakeStore) adjustBalance(walletID uint, delta decimal.Decimal) error {
	for _, w := range f.wallets {
		if w.ID == walletID {
			w.Balance = w.Balance.Add(delta)
			return nil
		}
	}
	return repositories.ErrWalletNotFound
}

func (f *fakeStore) createTransaction(entry *models.Transaction) error {
	if f.failCreateTransaction {
		return errors.New("insert failed: connection reset")
	}
	f.nextTxID++
	entry.ID = f.nextTxID
	f.transactions = append(f.transactions, *entry)
	return nil
}

// fakeTx shares the store's state but skips locking; the transaction already
// holds the store mutex.
type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) WithinTransaction(fn func(tx repositories.LedgerRepository) error) error {
	return fn(t)
}
func (t *fakeTx) LockWalletByOwner(ownerID uint) (*models.Wallet, error) {
	return t.store.getWalletByOwner(ownerID)
}
func (t *fakeTx) GetWalletByOwner(ownerID uint) (*models.Wallet, error) {
	return t.store.getWalletByOwner(ownerID)
}
func (t *fakeTx) GetWalletByID(id uint) (*models.Wallet, error) {
	return t.store.getWalletByID(id)
}
func (t *fakeTx) GetUserByEmail(email string) (*models.User, error) {
	u, ok := t.store.users[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}
func (t *fakeTx) AdjustBalance(walletID uint, delta decimal.Decimal) error {
	return t.store.adjustBalance(walletID, delta)
}
func (t *fakeTx) CreateTransaction(entry *models.Transaction) error {
	return t.store.createTransaction(entry)
}
func (t *fakeTx) ListTransactionsForWallet(walletID uint) ([]models.Transaction, error) {
	return nil, errors.New("not supported inside transaction")
}

func newTestService(store *fakeStore) Service {
	return NewService(store, nil, Config{
		Currency:       "NGN",
		MinimumBalance: decimal.RequireFromString("100.00"),
	}, nil)
}

func requireKind(t *testing.T, err error, kind ErrorKind) *Error {
	t.Helper()
	require.Error(t, err)
	werr, ok := AsError(err)
	require.True(t, ok, "expected a wallet.Error, got %T: %v", err, err)
	require.Equal(t, kind, werr.Kind, "unexpected error kind, message: %s", werr.Message)
	return werr
}

func TestFundWallet(t *testing.T) {
	t.Run("credits wallet and appends one fund entry", func(t *testing.T) {
		store := newFakeStore()
		store.addWallet(1, "0", "100.00")
		svc := newTestService(store)

		result, err := svc.FundWallet(context.Background(), 1, decimal.NewFromInt(5000))
		require.NoError(t, err)
		assert.True(t, result.Wallet.Balance.Equal(decimal.NewFromInt(5000)))
		assert.True(t, strings.HasPrefix(result.Reference, "TXN-"))

		require.Len(t, store.transactions, 1)
		entry := store.transactions[0]
		assert.Equal(t, models.TransactionTypeFund, entry.Type)
		assert.Equal(t, models.TransactionStatusSuccess, entry.Status)
		assert.Nil(t, entry.SourceWalletID)
		require.NotNil(t, entry.DestinationWalletID)
		assert.Equal(t, result.Wallet.ID, *entry.DestinationWalletID)
		assert.True(t, entry.Amount.Equal(decimal.NewFromInt(5000)))
	})

	t.Run("rejects non-positive amounts before touching the store", func(t *testing.T) {
		for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-50)} {
			store := newFakeStore()
			svc := newTestService(store)

			_, err := svc.FundWallet(context.Background(), 1, amount)
			werr := requireKind(t, err, KindValidation)
			assert.Equal(t, "Amount must be greater than zero", werr.Message)
			assert.Empty(t, store.transactions)
		}
	})

	t.Run("returns not found for a missing wallet", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		_, err := svc.FundWallet(context.Background(), 99, decimal.NewFromInt(100))
		werr := requireKind(t, err, KindNotFound)
		assert.Equal(t, "Wallet not found", werr.Message)
	})

	t.Run("rolls back the credit when the ledger insert fails", func(t *testing.T) {
		store := newFakeStore()
		store.addWallet(1, "250.00", "100.00")
		store.failCreateTransaction = true
		svc := newTestService(store)

		_, err := svc.FundWallet(context.Background(), 1, decimal.NewFromInt(100))
		requireKind(t, err, KindStore)

		w, _ := store.GetWalletByOwner(1)
		assert.True(t, w.Balance.Equal(decimal.RequireFromString("250.00")),
			"balance mutation must not survive a failed insert")
		assert.Empty(t, store.transactions)
	})
}

func TestWithdrawFunds(t *testing.T) {
	tests := []struct {
		name        string
		balance     string
		amount      string
		wantErrKind *ErrorKind
		wantErrMsg  string
		wantBalance string
	}{
		{
			name:        "raw shortfall reported before the floor",
			balance:     "5000.00",
			amount:      "6000",
			wantErrKind: kindPtr(KindUnprocessable),
			wantErrMsg:  "Insufficient funds",
			wantBalance: "5000.00",
		},
		{
			name:        "floor breach when raw balance covers the amount",
			balance:     "5000.00",
			amount:      "5000",
			wantErrKind: kindPtr(KindUnprocessable),
			wantErrMsg:  "Insufficient funds. A minimum balance of NGN 100 must be maintained.",
			wantBalance: "5000.00",
		},
		{
			name:        "floor breach just below the boundary",
			balance:     "5000.00",
			amount:      "4950",
			wantErrKind: kindPtr(KindUnprocessable),
			wantErrMsg:  "Insufficient funds. A minimum balance of NGN 100 must be maintained.",
			wantBalance: "5000.00",
		},
		{
			name:        "landing exactly on the floor is allowed",
			balance:     "5000.00",
			amount:      "4900",
			wantBalance: "100.00",
		},
		{
			name:        "ordinary withdrawal",
			balance:     "5000.00",
			amount:      "1000",
			wantBalance: "4000.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.addWallet(1, tt.balance, "100")
			svc := newTestService(store)

			result, err := svc.WithdrawFunds(context.Background(), 1, decimal.RequireFromString(tt.amount))

			if tt.wantErrKind != nil {
				werr := requireKind(t, err, *tt.wantErrKind)
				assert.Equal(t, tt.wantErrMsg, werr.Message)
				assert.Empty(t, store.transactions, "failed withdrawal must leave no ledger row")
			} else {
				require.NoError(t, err)
				assert.True(t, result.Wallet.Balance.Equal(decimal.RequireFromString(tt.wantBalance)))
				require.Len(t, store.transactions, 1)
				entry := store.transactions[0]
				assert.Equal(t, models.TransactionTypeWithdraw, entry.Type)
				require.NotNil(t, entry.SourceWalletID)
				assert.Nil(t, entry.DestinationWalletID)
			}

			w, _ := store.GetWalletByOwner(1)
			assert.True(t, w.Balance.Equal(decimal.RequireFromString(tt.wantBalance)))
		})
	}

	t.Run("missing wallet", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		_, err := svc.WithdrawFunds(context.Background(), 7, decimal.NewFromInt(10))
		werr := requireKind(t, err, KindNotFound)
		assert.Equal(t, "Wallet not found", werr.Message)
	})
}

func kindPtr(k ErrorKind) *ErrorKind { return &k }

func TestTransferFunds(t *testing.T) {
	setup := func() (*fakeStore, Service) {
		store := newFakeStore()
		store.addUser(1, "sender@example.com")
		store.addUser(2, "receiver@example.com")
		store.addWallet(1, "5000.00", "100.00")
		store.addWallet(2, "1000.00", "100.00")
		return store, newTestService(store)
	}

	t.Run("moves value and conserves the pair total", func(t *testing.T) {
		store, svc := setup()

		result, err := svc.TransferFunds(context.Background(), 1, "receiver@example.com", decimal.NewFromInt(1000))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(result.Reference, "TXN-"))
		assert.Equal(t, "receiver@example.com", result.Receiver)
		assert.True(t, result.Amount.Equal(decimal.NewFromInt(1000)))

		sender, _ := store.GetWalletByOwner(1)
		receiver, _ := store.GetWalletByOwner(2)
		assert.True(t, sender.Balance.Equal(decimal.NewFromInt(4000)))
		assert.True(t, receiver.Balance.Equal(decimal.NewFromInt(2000)))
		assert.True(t, sender.Balance.Add(receiver.Balance).Equal(decimal.NewFromInt(6000)),
			"transfer must conserve the pair total")

		require.Len(t, store.transactions, 1)
		entry := store.transactions[0]
		assert.Equal(t, models.TransactionTypeTransfer, entry.Type)
		require.NotNil(t, entry.SourceWalletID)
		require.NotNil(t, entry.DestinationWalletID)
		assert.Equal(t, sender.ID, *entry.SourceWalletID)
		assert.Equal(t, receiver.ID, *entry.DestinationWalletID)
	})

	t.Run("direction is preserved when the receiver has the lower user id", func(t *testing.T) {
		store, svc := setup()

		// User 2 sends to user 1: locks are still taken in ascending owner
		// order, so the debit must land on user 2 after re-mapping.
		_, err := svc.TransferFunds(context.Background(), 2, "sender@example.com", decimal.NewFromInt(500))
		require.NoError(t, err)

		w1, _ := store.GetWalletByOwner(1)
		w2, _ := store.GetWalletByOwner(2)
		assert.True(t, w1.Balance.Equal(decimal.NewFromInt(5500)))
		assert.True(t, w2.Balance.Equal(decimal.NewFromInt(500)))
	})

	t.Run("zero amount fails before the receiver lookup", func(t *testing.T) {
		store, svc := setup()

		_, err := svc.TransferFunds(context.Background(), 1, "receiver@example.com", decimal.Zero)
		werr := requireKind(t, err, KindValidation)
		assert.Equal(t, "Amount must be greater than zero", werr.Message)
		assert.Zero(t, store.userLookups)
	})

	t.Run("unknown receiver", func(t *testing.T) {
		_, svc := setup()

		_, err := svc.TransferFunds(context.Background(), 1, "nobody@example.com", decimal.NewFromInt(100))
		werr := requireKind(t, err, KindNotFound)
		assert.Equal(t, "Receiver not found", werr.Message)
	})

	t.Run("self transfer", func(t *testing.T) {
		_, svc := setup()

		_, err := svc.TransferFunds(context.Background(), 1, "sender@example.com", decimal.NewFromInt(100))
		werr := requireKind(t, err, KindUnprocessable)
		assert.Equal(t, "Cannot transfer to yourself", werr.Message)
	})

	t.Run("sender wallet missing", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(1, "sender@example.com")
		store.addUser(2, "receiver@example.com")
		store.addWallet(2, "1000.00", "100.00")
		svc := newTestService(store)

		_, err := svc.TransferFunds(context.Background(), 1, "receiver@example.com", decimal.NewFromInt(100))
		werr := requireKind(t, err, KindNotFound)
		assert.Equal(t, "Sender wallet not found", werr.Message)
	})

	t.Run("receiver wallet missing", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(1, "sender@example.com")
		store.addUser(2, "receiver@example.com")
		store.addWallet(1, "5000.00", "100.00")
		svc := newTestService(store)

		_, err := svc.TransferFunds(context.Background(), 1, "receiver@example.com", decimal.NewFromInt(100))
		werr := requireKind(t, err, KindNotFound)
		assert.Equal(t, "Receiver wallet not found", werr.Message)
	})

	t.Run("insufficient funds leaves both balances untouched", func(t *testing.T) {
		store, svc := setup()

		_, err := svc.TransferFunds(context.Background(), 1, "receiver@example.com", decimal.NewFromInt(9000))
		werr := requireKind(t, err, KindUnprocessable)
		assert.Equal(t, "Insufficient funds", werr.Message)

		sender, _ := store.GetWalletByOwner(1)
		receiver, _ := store.GetWalletByOwner(2)
		assert.True(t, sender.Balance.Equal(decimal.NewFromInt(5000)))
		assert.True(t, receiver.Balance.Equal(decimal.NewFromInt(1000)))
		assert.Empty(t, store.transactions)
	})

	t.Run("minimum balance floor applies to the sender", func(t *testing.T) {
		store, svc := setup()

		_, err := svc.TransferFunds(context.Background(), 1, "receiver@example.com", decimal.NewFromInt(4950))
		werr := requireKind(t, err, KindUnprocessable)
		assert.Equal(t, "Insufficient funds. A minimum balance of NGN 100 must be maintained.", werr.Message)
		assert.Empty(t, store.transactions)
	})
}

func TestTransferFunds_OpposingConcurrentTransfers(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, "a@example.com")
	store.addUser(2, "b@example.com")
	store.addWallet(1, "5000.00", "100.00")
	store.addWallet(2, "1000.00", "100.00")
	svc := newTestService(store)

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.TransferFunds(context.Background(), 1, "b@example.com", decimal.NewFromInt(1000))
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svc.TransferFunds(context.Background(), 2, "a@example.com", decimal.NewFromInt(500))
	}()
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	w1, _ := store.GetWalletByOwner(1)
	w2, _ := store.GetWalletByOwner(2)
	assert.True(t, w1.Balance.Equal(decimal.NewFromInt(4500)), "got %s", w1.Balance)
	assert.True(t, w2.Balance.Equal(decimal.NewFromInt(1500)), "got %s", w2.Balance)
	assert.Len(t, store.transactions, 2)
}

func TestReadOperations(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, "a@example.com")
	store.addUser(2, "b@example.com")
	store.addWallet(1, "5000.00", "100.00")
	store.addWallet(2, "1000.00", "100.00")
	svc := newTestService(store)

	_, err := svc.FundWallet(context.Background(), 1, decimal.NewFromInt(200))
	require.NoError(t, err)
	_, err = svc.TransferFunds(context.Background(), 1, "b@example.com", decimal.NewFromInt(300))
	require.NoError(t, err)

	t.Run("balance read is idempotent", func(t *testing.T) {
		first, err := svc.GetWalletBalance(context.Background(), 1)
		require.NoError(t, err)
		second, err := svc.GetWalletBalance(context.Background(), 1)
		require.NoError(t, err)
		assert.True(t, first.Balance.Equal(second.Balance))
	})

	t.Run("history lists both directions newest first", func(t *testing.T) {
		history, err := svc.GetTransactionHistory(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, models.TransactionTypeTransfer, history[0].Type)
		assert.Equal(t, models.TransactionTypeFund, history[1].Type)

		again, err := svc.GetTransactionHistory(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, history, again)
	})

	t.Run("history for unknown wallet", func(t *testing.T) {
		_, err := svc.GetTransactionHistory(context.Background(), 42)
		werr := requireKind(t, err, KindNotFound)
		assert.Equal(t, "Wallet not found", werr.Message)
	})
}
