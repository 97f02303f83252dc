package domain

import "errors"

// Validation
var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrTextRequired       = errors.New("text is required")
)

// Auth
var (
	ErrUserExists         = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

var ErrUserNotFound = errors.New("user not found")

// ErrUpstream marks a failed or malformed call to the sentiment classifier.
var ErrUpstream = errors.New("sentiment classifier failure")

// ErrPersistence marks a failure of the account store.
var ErrPersistence = errors.New("account store failure")
