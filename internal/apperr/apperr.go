// Package apperr defines the sentinel errors shared across the service.
// Callers classify failures with errors.Is; messages from the backing store
// are preserved by wrapping, never replaced.
package apperr

import "errors"

var (
	// ErrAuthenticationFailure covers bad credentials or a disabled account.
	ErrAuthenticationFailure = errors.New("authentication failed")

	// ErrAuthorization is returned when the supplied household code does not
	// match the code stored on the user's profile.
	ErrAuthorization = errors.New("household code mismatch")

	// ErrNotFound is returned when a user, session, or household record is missing.
	ErrNotFound = errors.New("not found")

	// ErrWriteConflict indicates a session-number collision: a record already
	// exists at the same key with materially different content.
	ErrWriteConflict = errors.New("write conflict")

	// ErrInvalidTransition is returned for state-machine misuse, such as
	// starting while running or stopping while idle.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrRemoteUnavailable wraps network or store failures.
	ErrRemoteUnavailable = errors.New("store unavailable")

	// ErrValidation is returned for malformed input, before any write is attempted.
	ErrValidation = errors.New("invalid input")
)
