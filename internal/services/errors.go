package services

import "errors"

// The four caller-recoverable outcomes the core surfaces. Handlers map them to
// HTTP statuses; nothing below this layer retries or wraps them further.
var (
	// ErrDuplicateIdentifier is returned when registering an email that
	// already has an account.
	ErrDuplicateIdentifier = errors.New("identifier already registered")

	// ErrUnauthenticated covers bad login credentials and missing, invalid
	// or expired tokens. It is deliberately uniform so callers cannot tell
	// which check failed.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound covers both genuinely absent tasks and tasks owned by
	// someone else, so existence never leaks across owners.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for empty required fields and values
	// outside the status/priority enums, before any mutation is applied.
	ErrInvalidInput = errors.New("invalid input")
)
