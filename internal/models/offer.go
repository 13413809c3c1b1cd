package models

import (
	"time"
)

type OfferStatus string

const (
	OfferStatusPending   OfferStatus = "pending"
	OfferStatusAccepted  OfferStatus = "accepted"
	OfferStatusRejected  OfferStatus = "rejected"
	OfferStatusWithdrawn OfferStatus = "withdrawn"
)

// Offer is a provider's bid against a Need. Exactly one offer per need may
// reach accepted; a provider holds at most one pending offer per need.
type Offer struct {
	ID           uint        `gorm:"primarykey" json:"id"`
	NeedID       uint        `gorm:"not null;index" json:"need_id"`
	Need         *Need       `json:"-"`
	ProviderID   uint        `gorm:"not null;index" json:"provider_id"`
	Provider     *User       `json:"-"`
	Price        float64     `gorm:"not null" json:"price"`
	Currency     string      `gorm:"default:'TRY'" json:"currency"`
	DeliveryDays int         `gorm:"not null" json:"delivery_days"`
	Message      string      `gorm:"type:text" json:"message,omitempty"`
	Status       OfferStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RejectReason string      `json:"reject_reason,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// IsTerminal reports whether the offer has reached a final status.
func (o *Offer) IsTerminal() bool {
	return o.Status != OfferStatusPending
}

// InvolvesUser reports whether the user is the provider or the need owner.
// The need association must be loaded.
func (o *Offer) InvolvesUser(userID uint) bool {
	if o.ProviderID == userID {
		return true
	}
	return o.Need != nil && o.Need.UserID == userID
}
