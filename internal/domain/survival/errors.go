package survival

import "errors"

// Sentinel kinds for estimator errors.
var (
	ErrLengthMismatch   = errors.New("input columns differ in length")
	ErrInvalidEventCode = errors.New("event code outside {0,1,2}")
	ErrNegativeWeight   = errors.New("negative case weight")
	ErrUnknownCause     = errors.New("unknown cause")
)
