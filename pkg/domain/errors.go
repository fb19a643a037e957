package domain

import (
	"errors"
	"fmt"
)

// ErrConflict is the base of all uniqueness violations. Specific
// conflicts wrap it so callers can match the whole class with
// errors.Is(err, ErrConflict).
var ErrConflict = errors.New("conflict")

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrUsernameTaken   = fmt.Errorf("username already taken: %w", ErrConflict)
	ErrIdentityTaken   = fmt.Errorf("identity already linked: %w", ErrConflict)
	ErrCredentialTaken = fmt.Errorf("credential already in use: %w", ErrConflict)
)
