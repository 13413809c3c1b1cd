package models

import (
	"time"
)

// Conversation is the message thread between a need owner and a provider.
// One conversation per (need, provider) pair.
type Conversation struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	NeedID        uint      `gorm:"not null;index;uniqueIndex:idx_conversation_pair" json:"need_id"`
	BuyerID       uint      `gorm:"not null;index" json:"buyer_id"`
	ProviderID    uint      `gorm:"not null;index;uniqueIndex:idx_conversation_pair" json:"provider_id"`
	LastMessageAt time.Time `json:"last_message_at"`
	Messages      []Message `gorm:"foreignKey:ConversationID" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// InvolvesUser reports whether the user is a party to the conversation.
func (c *Conversation) InvolvesUser(userID uint) bool {
	return c.BuyerID == userID || c.ProviderID == userID
}

type Message struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	ConversationID uint       `gorm:"not null;index" json:"conversation_id"`
	SenderID       uint       `gorm:"not null" json:"sender_id"`
	Body           string     `gorm:"type:text;not null" json:"body"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
