package wallet

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vector-10/wallet-service-lendsqr/internal/models"
)

// Config holds wallet service configuration.
type Config struct {
	// Currency is the single currency code all wallets share.
	Currency string
	// MinimumBalance is the floor applied to wallets created for new users.
	MinimumBalance decimal.Decimal
}

// FundResult is returned by FundWallet.
type FundResult struct {
	Wallet    *models.Wallet `json:"wallet"`
	Reference string         `json:"reference"`
}

// WithdrawResult is returned by WithdrawFunds.
type WithdrawResult struct {
	Wallet    *models.Wallet `json:"wallet"`
	Reference string         `json:"reference"`
}

// TransferResult is returned by TransferFunds.
type TransferResult struct {
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Receiver  string          `json:"receiver"`
}

// Cache caches wallet snapshots for the read endpoints. Mutating operations
// only invalidate; they never read through it.
type Cache interface {
	GetWallet(ctx context.Context, ownerID uint) (*models.Wallet, bool)
	SetWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, ownerID uint) error
}

type noopCache struct{}

func (noopCache) GetWallet(context.Context, uint) (*models.Wallet, bool) { return nil, false }
func (noopCache) SetWallet(context.Context, *models.Wallet) error        { return nil }
func (noopCache) InvalidateWallet(context.Context, uint) error           { return nil }

// MetricsCollector records wallet operation metrics.
type MetricsCollector interface {
	RecordTransaction(txType string, amount decimal.Decimal)
	RecordError(operation, kind string)
	RecordOperationDuration(operation string, duration time.Duration)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordTransaction(string, decimal.Decimal)     {}
func (NoopMetricsCollector) RecordError(string, string)                    {}
func (NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
