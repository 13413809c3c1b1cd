package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet holds a provider's released escrow earnings.
type Wallet struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	UserID    uint    `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance   float64 `gorm:"default:0" json:"balance"`
	Currency  string  `gorm:"default:'TRY'" json:"currency"`
	Status    string  `gorm:"default:'active'" json:"status"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	// Earnings always start at 0
	w.Balance = 0.0
	return nil
}
