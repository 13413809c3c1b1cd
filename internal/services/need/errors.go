package need

import (
	apperrors "github.com/sabridemirel/arayanibul-sub001/internal/errors"
)

var (
	ErrNotOwner    = apperrors.NewUnauthorized("only the need owner may do this")
	ErrNotEditable = apperrors.NewValidation("status", "need can no longer be changed")
	ErrBadCategory = apperrors.NewValidation("category_id", "unknown category")
)
