package errors

import "errors"

var (
	ErrMalformedNIC          = errors.New("national id does not match a valid format")
	ErrEmptyPassword         = errors.New("password is required")
	ErrVoterNotFound         = errors.New("voter not found or credentials invalid")
	ErrEmptyVoterID          = errors.New("voter identifier is required")
	ErrValidationUnavailable = errors.New("voter validation service unavailable")
	ErrEnrollmentUnavailable = errors.New("enrollment lookup service unavailable")
)
