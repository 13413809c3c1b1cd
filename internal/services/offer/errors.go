package offer

import (
	apperrors "github.com/sabridemirel/arayanibul-sub001/internal/errors"
)

// Guard failures for offer state transitions.
var (
	ErrOwnNeed          = apperrors.NewValidation("need_id", "you cannot make an offer on your own need")
	ErrNeedNotActive    = apperrors.NewValidation("need_id", "need is not accepting offers")
	ErrDuplicatePending = apperrors.NewValidation("need_id", "you already have a pending offer on this need")
	ErrCurrencyMismatch = apperrors.NewValidation("currency", "offer currency must match the need currency")
	ErrNotPending       = apperrors.NewValidation("status", "offer is not pending")
	ErrAcceptedDelete   = apperrors.NewValidation("status", "an accepted offer cannot be deleted")

	ErrNotNeedOwner = apperrors.NewUnauthorized("only the need owner may perform this action")
	ErrNotProvider  = apperrors.NewUnauthorized("only the offer provider may perform this action")
	ErrNotParty     = apperrors.NewUnauthorized("you are not a party to this offer")
)
