// Package repositories provides the data access layer. It owns every SQL
// statement in the service and exposes narrow interfaces the services are
// built against.
package repositories

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/vector-10/wallet-service-lendsqr/internal/models"
)

var (
	ErrWalletNotFound = errors.New("wallet not found")
	ErrUserNotFound   = errors.New("user not found")
)

// LedgerRepository is the transactional store the wallet service moves money
// through: row-locking wallet reads, signed balance adjustments and
// append-only transaction rows, all scoped to an atomic unit of work.
type LedgerRepository interface {
	// WithinTransaction runs fn against a repository bound to a single store
	// transaction. If fn returns an error the transaction rolls back and no
	// effect survives; otherwise it commits.
	WithinTransaction(fn func(tx LedgerRepository) error) error

	// LockWalletByOwner reads the wallet row for ownerID and holds an
	// exclusive row lock on it until the surrounding transaction ends. It
	// blocks while another transaction holds the same lock. Only meaningful
	// inside WithinTransaction.
	LockWalletByOwner(ownerID uint) (*models.Wallet, error)

	// Unlocked reads.
	GetWalletByOwner(ownerID uint) (*models.Wallet, error)
	GetWalletByID(id uint) (*models.Wallet, error)
	GetUserByEmail(email string) (*models.User, error)

	// AdjustBalance applies a signed delta to a wallet row. Callers must hold
	// the row lock via LockWalletByOwner in the same transaction.
	AdjustBalance(walletID uint, delta decimal.Decimal) error

	// CreateTransaction appends one immutable ledger row.
	CreateTransaction(entry *models.Transaction) error

	// ListTransactionsForWallet returns every ledger row where the wallet
	// appears as source or destination, newest first.
	ListTransactionsForWallet(walletID uint) ([]models.Transaction, error)
}
