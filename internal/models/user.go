package models

import "time"

// User account statuses
const (
	UserStatusActive      = "active"
	UserStatusBlacklisted = "blacklisted"
	UserStatusSuspended   = "suspended"
)

type User struct {
	ID             uint    `gorm:"primarykey" json:"id"`
	FirstName      string  `gorm:"size:100;not null" json:"first_name"`
	LastName       string  `gorm:"size:100;not null" json:"last_name"`
	Email          string  `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Phone          string  `gorm:"size:20;not null" json:"phone"`
	PasswordHash   string  `gorm:"size:255;not null" json:"-"`
	BVN            string  `gorm:"size:255;uniqueIndex;not null" json:"-"` // AES-256-CBC encrypted at rest
	Status         string  `gorm:"size:20;default:'active'" json:"status"`
	KarmaCheckedAt *time.Time `json:"-"`
	Wallet         *Wallet `gorm:"foreignKey:OwnerID" json:"wallet,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"-"`
}
