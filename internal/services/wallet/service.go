// Package wallet implements the money movement engine: the only component
// allowed to mutate wallet balances. Every mutating operation runs inside one
// store transaction, takes wallet row locks in a deterministic order, writes
// exactly one ledger entry, and either commits fully or rolls back fully.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vector-10/wallet-service-lendsqr/internal/models"
	"github.com/vector-10/wallet-service-lendsqr/internal/repositories"
	"github.com/vector-10/wallet-service-lendsqr/internal/utils"
)

// Service is the engine's operation surface. All amounts are fixed-point
// decimals; all results are plain data, never store handles.
type Service interface {
	FundWallet(ctx context.Context, userID uint, amount decimal.Decimal) (*FundResult, error)
	WithdrawFunds(ctx context.Context, userID uint, amount decimal.Decimal) (*WithdrawResult, error)
	TransferFunds(ctx context.Context, senderID uint, receiverEmail string, amount decimal.Decimal) (*TransferResult, error)
	GetWalletBalance(ctx context.Context, userID uint) (*models.Wallet, error)
	GetTransactionHistory(ctx context.Context, userID uint) ([]models.Transaction, error)
}

type service struct {
	repo    repositories.LedgerRepository
	cache   Cache
	config  Config
	metrics MetricsCollector
}

// NewService creates a wallet service with an injected ledger store.
func NewService(repo repositories.LedgerRepository, cache Cache, config Config, metrics MetricsCollector) Service {
	if repo == nil {
		panic("ledger repository is required")
	}
	if cache == nil {
		cache = noopCache{}
	}
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}
	if config.Currency == "" {
		config.Currency = "NGN"
	}
	return &service{
		repo:    repo,
		cache:   cache,
		config:  config,
		metrics: metrics,
	}
}

// validateAmount rejects non-positive amounts before any lock or transaction.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return validationError("Amount must be greater than zero")
	}
	return nil
}

// asEngineError keeps *Error values intact and wraps anything else (commit
// failures, connectivity loss) as a store-kind error.
func asEngineError(err error) error {
	if werr, ok := AsError(err); ok {
		return werr
	}
	return storeError(err)
}

func lockErr(err error, notFoundMsg string) error {
	if errors.Is(err, repositories.ErrWalletNotFound) {
		return notFoundError(notFoundMsg)
	}
	return storeError(err)
}

// checkSufficiency enforces the debit invariants on a locked sender wallet.
// Raw sufficiency is checked before the minimum-balance floor so a shortfall
// against the absolute balance is reported first.
func checkSufficiency(w *models.Wallet, amount decimal.Decimal) error {
	if w.Balance.LessThan(amount) {
		return unprocessableError("Insufficient funds")
	}
	if w.Balance.Sub(amount).LessThan(w.MinimumBalance) {
		return unprocessableError(fmt.Sprintf(
			"Insufficient funds. A minimum balance of %s %s must be maintained.",
			w.Currency, w.MinimumBalance))
	}
	return nil
}

func (s *service) FundWallet(ctx context.Context, userID uint, amount decimal.Decimal) (*FundResult, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("fund", time.Since(start)) }()

	if err := validateAmount(amount); err != nil {
		s.metrics.RecordError("fund", KindValidation.String())
		return nil, err
	}

	wallet, err := s.repo.GetWalletByOwner(userID)
	if err != nil {
		err = lockErr(err, "Wallet not found")
		s.recordFailure("fund", err)
		return nil, err
	}

	var result FundResult
	err = s.repo.WithinTransaction(func(tx repositories.LedgerRepository) error {
		locked, err := tx.LockWalletByOwner(userID)
		if err != nil {
			return lockErr(err, "Wallet not found")
		}
		if err := tx.AdjustBalance(locked.ID, amount); err != nil {
			return storeError(err)
		}

		reference := utils.GenerateReference()
		entry := &models.Transaction{
			Reference:           reference,
			SourceWalletID:      nil,
			DestinationWalletID: &locked.ID,
			Type:                models.TransactionTypeFund,
			Amount:              amount,
			Status:              models.TransactionStatusSuccess,
			Narration:           fmt.Sprintf("Wallet Funded with %s %s", locked.Currency, amount),
		}
		if err := tx.CreateTransaction(entry); err != nil {
			return storeError(err)
		}

		updated, err := tx.GetWalletByID(locked.ID)
		if err != nil {
			return storeError(err)
		}
		result = FundResult{Wallet: updated, Reference: reference}
		return nil
	})
	if err != nil {
		err = asEngineError(err)
		s.recordFailure("fund", err)
		return nil, err
	}

	s.invalidate(ctx, wallet.OwnerID)
	s.metrics.RecordTransaction(models.TransactionTypeFund, amount)
	return &result, nil
}

func (s *service) WithdrawFunds(ctx context.Context, userID uint, amount decimal.Decimal) (*WithdrawResult, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("withdraw", time.Since(start)) }()

	if err := validateAmount(amount); err != nil {
		s.metrics.RecordError("withdraw", KindValidation.String())
		return nil, err
	}

	var result WithdrawResult
	err := s.repo.WithinTransaction(func(tx repositories.LedgerRepository) error {
		locked, err := tx.LockWalletByOwner(userID)
		if err != nil {
			return lockErr(err, "Wallet not found")
		}
		if err := checkSufficiency(locked, amount); err != nil {
			return err
		}
		if err := tx.AdjustBalance(locked.ID, amount.Neg()); err != nil {
			return storeError(err)
		}

		reference := utils.GenerateReference()
		entry := &models.Transaction{
			Reference:           reference,
			SourceWalletID:      &locked.ID,
			DestinationWalletID: nil,
			Type:                models.TransactionTypeWithdraw,
			Amount:              amount,
			Status:              models.TransactionStatusSuccess,
			Narration:           fmt.Sprintf("Withdrawal of %s %s", locked.Currency, amount),
		}
		if err := tx.CreateTransaction(entry); err != nil {
			return storeError(err)
		}

		updated, err := tx.GetWalletByID(locked.ID)
		if err != nil {
			return storeError(err)
		}
		result = WithdrawResult{Wallet: updated, Reference: reference}
		return nil
	})
	if err != nil {
		err = asEngineError(err)
		s.recordFailure("withdraw", err)
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.metrics.RecordTransaction(models.TransactionTypeWithdraw, amount)
	return &result, nil
}

func (s *service) TransferFunds(ctx context.Context, senderID uint, receiverEmail string, amount decimal.Decimal) (*TransferResult, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("transfer", time.Since(start)) }()

	if err := validateAmount(amount); err != nil {
		s.metrics.RecordError("transfer", KindValidation.String())
		return nil, err
	}

	// Receiver lookup and self-transfer check happen before any transaction
	// is opened; these failures never touch a lock.
	receiver, err := s.repo.GetUserByEmail(receiverEmail)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			err = notFoundError("Receiver not found")
		} else {
			err = storeError(err)
		}
		s.recordFailure("transfer", err)
		return nil, err
	}
	if receiver.ID == senderID {
		err := unprocessableError("Cannot transfer to yourself")
		s.recordFailure("transfer", err)
		return nil, err
	}

	var result TransferResult
	err = s.repo.WithinTransaction(func(tx repositories.LedgerRepository) error {
		// Lock both wallet rows in ascending owner-id order regardless of
		// transfer direction, then re-map which row is the sender. Two
		// opposing transfers between the same pair therefore always queue on
		// the same first lock and cannot deadlock.
		firstOwner, secondOwner := senderID, receiver.ID
		if secondOwner < firstOwner {
			firstOwner, secondOwner = secondOwner, firstOwner
		}

		firstWallet, err := tx.LockWalletByOwner(firstOwner)
		if err != nil {
			return lockErr(err, transferWalletMsg(firstOwner, senderID))
		}
		secondWallet, err := tx.LockWalletByOwner(secondOwner)
		if err != nil {
			return lockErr(err, transferWalletMsg(secondOwner, senderID))
		}

		senderWallet, receiverWallet := firstWallet, secondWallet
		if firstOwner != senderID {
			senderWallet, receiverWallet = secondWallet, firstWallet
		}

		if err := checkSufficiency(senderWallet, amount); err != nil {
			return err
		}
		if err := tx.AdjustBalance(senderWallet.ID, amount.Neg()); err != nil {
			return storeError(err)
		}
		if err := tx.AdjustBalance(receiverWallet.ID, amount); err != nil {
			return storeError(err)
		}

		reference := utils.GenerateReference()
		entry := &models.Transaction{
			Reference:           reference,
			SourceWalletID:      &senderWallet.ID,
			DestinationWalletID: &receiverWallet.ID,
			Type:                models.TransactionTypeTransfer,
			Amount:              amount,
			Status:              models.TransactionStatusSuccess,
			Narration:           fmt.Sprintf("Transfer of %s %s to %s", senderWallet.Currency, amount, receiverEmail),
		}
		if err := tx.CreateTransaction(entry); err != nil {
			return storeError(err)
		}

		result = TransferResult{Reference: reference, Amount: amount, Receiver: receiverEmail}
		return nil
	})
	if err != nil {
		err = asEngineError(err)
		s.recordFailure("transfer", err)
		return nil, err
	}

	s.invalidate(ctx, senderID)
	s.invalidate(ctx, receiver.ID)
	s.metrics.RecordTransaction(models.TransactionTypeTransfer, amount)
	return &result, nil
}

func transferWalletMsg(ownerID, senderID uint) string {
	if ownerID == senderID {
		return "Sender wallet not found"
	}
	return "Receiver wallet not found"
}

func (s *service) GetWalletBalance(ctx context.Context, userID uint) (*models.Wallet, error) {
	if wallet, ok := s.cache.GetWallet(ctx, userID); ok {
		return wallet, nil
	}

	wallet, err := s.repo.GetWalletByOwner(userID)
	if err != nil {
		err = lockErr(err, "Wallet not found")
		s.recordFailure("balance", err)
		return nil, err
	}

	if err := s.cache.SetWallet(ctx, wallet); err != nil {
		// A cold cache only costs the next read a database round trip.
		s.metrics.RecordError("balance", "cache")
	}
	return wallet, nil
}

func (s *service) GetTransactionHistory(ctx context.Context, userID uint) ([]models.Transaction, error) {
	wallet, err := s.repo.GetWalletByOwner(userID)
	if err != nil {
		err = lockErr(err, "Wallet not found")
		s.recordFailure("history", err)
		return nil, err
	}

	transactions, err := s.repo.ListTransactionsForWallet(wallet.ID)
	if err != nil {
		err = storeError(err)
		s.recordFailure("history", err)
		return nil, err
	}
	return transactions, nil
}

func (s *service) recordFailure(operation string, err error) {
	if werr, ok := AsError(err); ok {
		s.metrics.RecordError(operation, werr.Kind.String())
		return
	}
	s.metrics.RecordError(operation, "unknown")
}

func (s *service) invalidate(ctx context.Context, ownerID uint) {
	if err := s.cache.InvalidateWallet(ctx, ownerID); err != nil {
		s.metrics.RecordError("cache_invalidate", "cache")
	}
}
