package shared

import "errors"

var (
	// ErrUnauthorized is returned by collaborators when the credential is missing a
	// subject or was rejected. It is surfaced to the caller.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnavailable marks transport or backend failures. Callers degrade the
	// affected collection to empty.
	ErrUnavailable = errors.New("source unavailable")
	// ErrMalformedRecord describes a record that had to be coerced to safe defaults.
	// The reconciliation engine counts these instead of returning them.
	ErrMalformedRecord   = errors.New("malformed record")
	ErrInvalidFilterMode = errors.New("invalid filter mode")
)
