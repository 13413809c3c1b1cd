package models

import (
	"time"
)

type NeedStatus string

const (
	NeedStatusActive     NeedStatus = "active"
	NeedStatusInProgress NeedStatus = "in_progress"
	NeedStatusCompleted  NeedStatus = "completed"
	NeedStatusCancelled  NeedStatus = "cancelled"
	NeedStatusExpired    NeedStatus = "expired"
)

// Need urgency levels
const (
	UrgencyLow    = "low"
	UrgencyNormal = "normal"
	UrgencyHigh   = "high"
	UrgencyUrgent = "urgent"
)

// Need is a buyer's posted request for a local service.
type Need struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	CategoryID  uint   `gorm:"not null;index" json:"category_id"`
	Category    *Category
	MinBudget   *float64    `json:"min_budget,omitempty"`
	MaxBudget   *float64    `json:"max_budget,omitempty"`
	Currency    string      `gorm:"default:'TRY'" json:"currency"`
	Location    string      `json:"location,omitempty"`
	Urgency     string      `gorm:"default:'normal'" json:"urgency"`
	Status      NeedStatus  `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	UserID      uint        `gorm:"not null;index" json:"user_id"`
	User        *User       `json:"-"`
	ViewCount   int         `gorm:"default:0" json:"view_count"`
	Images      []NeedImage `gorm:"foreignKey:NeedID" json:"images,omitempty"`
	Offers      []Offer     `gorm:"foreignKey:NeedID" json:"-"`
	ExpiresAt   *time.Time  `json:"expires_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NeedImage is an attachment ordered by SortOrder.
type NeedImage struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	NeedID    uint   `gorm:"not null;index" json:"need_id"`
	URL       string `gorm:"not null" json:"url"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}

// IsExpired reports whether the need's deadline has passed.
func (n *Need) IsExpired(now time.Time) bool {
	return n.ExpiresAt != nil && now.After(*n.ExpiresAt)
}

// AcceptsOffers reports whether new offers may be created against the need.
func (n *Need) AcceptsOffers(now time.Time) bool {
	return n.Status == NeedStatusActive && !n.IsExpired(now)
}
