package payment

import (
	apperrors "github.com/sabridemirel/arayanibul-sub001/internal/errors"
)

// Guard failures for escrow transitions.
var (
	ErrOfferNotAccepted = apperrors.NewValidation("offer_id", "payment requires an accepted offer")
	ErrLiveTransaction  = apperrors.NewValidation("offer_id", "offer already has an active payment")
	ErrNotCompleted     = apperrors.NewValidation("status", "transaction is not completed")

	ErrNotBuyer = apperrors.NewUnauthorized("only the buyer may perform this action")
	ErrNotParty = apperrors.NewUnauthorized("you are not a party to this transaction")
)
