package review

import (
	apperrors "github.com/sabridemirel/arayanibul-sub001/internal/errors"
)

var (
	ErrOfferNotAccepted = apperrors.NewValidation("offer_id", "reviews require an accepted offer")
	ErrSelfReview       = apperrors.NewValidation("offer_id", "you cannot review yourself")
	ErrAlreadyReviewed  = apperrors.NewValidation("offer_id", "you already reviewed this offer")
	ErrNotParty         = apperrors.NewUnauthorized("only the offer parties may review")
)
