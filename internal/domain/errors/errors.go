package errors

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("operation not allowed in current state")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	ErrNotEligible       = errors.New("not eligible to rate")
	ErrScoreOutOfRange   = errors.New("score out of range")
	ErrReviewTooLong     = errors.New("review too long")
	ErrInvalidWindow     = errors.New("invalid aggregation window")
	ErrDependencyFailure = errors.New("external dependency failure")
)
