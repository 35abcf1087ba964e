package domain

import "errors"

// Failure kinds returned across component boundaries. Callers match them with errors.Is;
// the concrete cause is wrapped around them.
var (
	ErrValidation              = errors.New("validation error")
	ErrAuthRequired            = errors.New("authentication required")
	ErrForbidden               = errors.New("operation not permitted")
	ErrProviderUnavailable     = errors.New("payment provider unavailable")
	ErrProviderResponseInvalid = errors.New("payment provider response invalid")
	ErrUnknownProviderOutcome  = errors.New("unknown payment outcome")
	ErrNotFound                = errors.New("not found")
)
