package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionTypeFund     = "fund"
	TransactionTypeTransfer = "transfer"
	TransactionTypeWithdraw = "withdraw"
)

// Transaction statuses. The wallet service only ever writes success: a failed
// operation rolls back and leaves no row. Pending and failed exist for future
// asynchronous settlement.
const (
	TransactionStatusPending = "pending"
	TransactionStatusSuccess = "success"
	TransactionStatusFailed  = "failed"
)

// Transaction is one immutable ledger entry. Rows are write-once: nothing in
// the codebase updates a transaction after insert.
type Transaction struct {
	ID                  uint            `gorm:"primarykey" json:"id"`
	Reference           string          `gorm:"size:100;uniqueIndex;not null" json:"reference"`
	SourceWalletID      *uint           `json:"source_wallet_id"`      // nil for fund
	DestinationWalletID *uint           `json:"destination_wallet_id"` // nil for withdraw
	Type                string          `gorm:"size:20;not null" json:"type"`
	Amount              decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Status              string          `gorm:"size:20;not null;default:'pending'" json:"status"`
	Narration           string          `gorm:"type:text" json:"narration"`
	CreatedAt           time.Time       `json:"created_at"`
}
