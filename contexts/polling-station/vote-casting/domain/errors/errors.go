package errors

import "errors"

var (
	ErrInvalidCastInput    = errors.New("voter, election and candidate identifiers are required")
	ErrDistrictUnavailable = errors.New("vote refused: voter district is not available")
	ErrCastInFlight        = errors.New("a vote submission is already in flight")
	ErrCastUnauthorized    = errors.New("vote submission unauthorized")
	ErrCastRejected        = errors.New("vote submission rejected")
	ErrCastUnavailable     = errors.New("vote submission service unavailable")
)
