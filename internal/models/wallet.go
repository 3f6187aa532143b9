package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is the balance-holding account bound 1:1 to a user. Its balance is
// mutated only by the wallet service, and only while the row lock is held by
// the surrounding store transaction.
type Wallet struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	OwnerID        uint            `gorm:"uniqueIndex;not null" json:"owner_id"`
	Balance        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	MinimumBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:100.00" json:"minimum_balance"`
	Currency       string          `gorm:"size:10;default:'NGN'" json:"currency"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
