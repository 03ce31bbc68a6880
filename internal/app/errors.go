package app

import "errors"

// Failure taxonomy shared by all services. Handlers map these to HTTP
// statuses; nothing below this package swallows an error.
var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound covers absent users, documents and ingestion records.
	ErrNotFound = errors.New("not found")

	// ErrEmailExists is the registration conflict.
	ErrEmailExists = errors.New("email already exists")

	// ErrInvalidCredential is returned for both unknown email and wrong
	// password so callers cannot enumerate registered emails.
	ErrInvalidCredential = errors.New("invalid credentials")

	// ErrInvalidToken covers missing, malformed and expired session tokens.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrForbidden means the identity is valid but its role is not in the
	// action's allow-list.
	ErrForbidden = errors.New("insufficient role")

	// ErrInvalidTransition is a contract violation: a terminal ingestion
	// record was asked to transition again.
	ErrInvalidTransition = errors.New("ingestion record is in a terminal state")
)
