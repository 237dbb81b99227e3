package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalServer     = errors.New("internal server error")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Lifecycle errors
var (
	// ErrInvalidTransition marks a state-conflict: the requested
	// transition does not exist in the entity's transition table.
	// The current state is left untouched.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvariant marks a fatal configuration error (policy duration
	// <= 0, discount outside [0,100]). Never retried.
	ErrInvariant = errors.New("invariant violation")
)
