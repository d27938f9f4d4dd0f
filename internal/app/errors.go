package app

import (
	"errors"
)

// Sentinel kinds for study errors.
var (
	ErrVerificationFailed = errors.New("estimator invariant violated")
)
