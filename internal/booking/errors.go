package booking

import "errors"

// Failure classes surfaced to callers. Handlers map these to HTTP statuses;
// nothing is retried and no compensating writes are attempted on failure.
var (
	ErrValidation   = errors.New("invalid request")
	ErrUnauthorized = errors.New("unauthorized action")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("state conflict")
)
