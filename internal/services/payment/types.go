package payment

import (
	"github.com/sabridemirel/arayanibul-sub001/internal/validation"
)

// InitializeRequest is the payload for starting an escrow payment.
type InitializeRequest struct {
	OfferID uint                 `json:"offer_id"`
	Card    validation.CardInput `json:"card"`
}

// InitializeResponse is returned to the buyer so the mobile client can open
// the 3-D Secure page.
type InitializeResponse struct {
	TransactionID  uint   `json:"transaction_id"`
	ConversationID string `json:"conversation_id"`
	Status         string `json:"status"`
	RedirectURL    string `json:"redirect_url,omitempty"`
}
