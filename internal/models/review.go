package models

import (
	"time"
)

// Review is feedback between the two parties of an accepted offer.
// reviewer != reviewee; one review per (reviewer, reviewee, offer).
type Review struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ReviewerID uint      `gorm:"not null;index;uniqueIndex:idx_review_triple" json:"reviewer_id"`
	RevieweeID uint      `gorm:"not null;index;uniqueIndex:idx_review_triple" json:"reviewee_id"`
	OfferID    uint      `gorm:"not null;index;uniqueIndex:idx_review_triple" json:"offer_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment"`
	IsVisible  bool      `gorm:"default:true" json:"is_visible"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
