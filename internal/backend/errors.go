package backend

import "errors"

var (
	// ErrInvalidCredentials indicates a failed authentication attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrConflict indicates a registration for an already-known user.
	ErrConflict = errors.New("user already exists")
	// ErrNotFound indicates an unknown resource path or entity id.
	ErrNotFound = errors.New("resource not found")
	// ErrValidation indicates a malformed patch or non-patchable resource path.
	ErrValidation = errors.New("resource is not patchable")
)
