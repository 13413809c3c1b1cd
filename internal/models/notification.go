package models

import (
	"time"
)

// Notification types
const (
	NotificationOfferReceived  = "offer_received"
	NotificationOfferAccepted  = "offer_accepted"
	NotificationOfferRejected  = "offer_rejected"
	NotificationOfferWithdrawn = "offer_withdrawn"
	NotificationPaymentDone    = "payment_completed"
	NotificationPaymentOut     = "payment_released"
	NotificationPaymentBack    = "payment_refunded"
	NotificationNewMessage     = "new_message"
	NotificationNewReview      = "new_review"
)

type Notification struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Type      string     `gorm:"not null" json:"type"`
	Title     string     `gorm:"not null" json:"title"`
	Body      string     `json:"body"`
	Data      JSON       `gorm:"type:jsonb" json:"data,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
