package errors

import "errors"

var (
	ErrInvalidTransition = errors.New("action is not allowed in the current session phase")
	ErrUnknownCandidate  = errors.New("candidate is not on the active roster")
	ErrNoSelection       = errors.New("no candidate has been selected")
)
