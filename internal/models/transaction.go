package models

import (
	"time"
)

type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusProcessing TransactionStatus = "processing"
	TransactionStatusCompleted  TransactionStatus = "completed"
	TransactionStatusReleased   TransactionStatus = "released"
	TransactionStatusRefunded   TransactionStatus = "refunded"
	TransactionStatusFailed     TransactionStatus = "failed"
)

// Transaction is an escrow payment record tied to one accepted offer.
// Rows are append-only: status transitions stamp timestamps, nothing is
// ever deleted.
type Transaction struct {
	ID             uint              `gorm:"primarykey" json:"id"`
	OfferID        uint              `gorm:"not null;index" json:"offer_id"`
	Offer          *Offer            `json:"-"`
	BuyerID        uint              `gorm:"not null;index" json:"buyer_id"`
	ProviderID     uint              `gorm:"not null;index" json:"provider_id"`
	Amount         float64           `gorm:"not null" json:"amount"`
	Currency       string            `gorm:"default:'TRY'" json:"currency"`
	Status         TransactionStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentGateway string            `gorm:"default:'stripe'" json:"payment_gateway"`
	ConversationID string            `gorm:"uniqueIndex;not null" json:"conversation_id"`
	GatewayRef     string            `json:"-"`
	PaymentHTML    string            `gorm:"type:text" json:"-"`
	FailureReason  string            `json:"failure_reason,omitempty"`
	RefundReason   string            `json:"refund_reason,omitempty"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
	ReleasedAt     *time.Time        `json:"released_at,omitempty"`
	RefundedAt     *time.Time        `json:"refunded_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// IsLive reports whether the transaction blocks a new payment on its offer.
// At most one transaction per offer may be live at a time.
func (t *Transaction) IsLive() bool {
	switch t.Status {
	case TransactionStatusPending, TransactionStatusProcessing, TransactionStatusCompleted:
		return true
	}
	return false
}

// InvolvesUser reports whether the user is the buyer or the provider.
func (t *Transaction) InvolvesUser(userID uint) bool {
	return t.BuyerID == userID || t.ProviderID == userID
}
