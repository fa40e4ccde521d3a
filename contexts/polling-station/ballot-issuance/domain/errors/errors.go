package errors

import "errors"

var (
	ErrInvalidEligibilityInput = errors.New("voter id and election id are required")
	ErrEligibilityUnavailable  = errors.New("eligibility check service unavailable")
	ErrRosterUnavailable       = errors.New("candidate roster service unavailable")
)
