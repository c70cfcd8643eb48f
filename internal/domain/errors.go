package domain

import "errors"

// Sentinel errors shared by services, repositories and the HTTP layer.
// Controllers map them to status codes with errors.Is.
var (
	ErrNotFound              = errors.New("not found")
	ErrForbidden             = errors.New("forbidden")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidState          = errors.New("invalid state")
	ErrInsufficientInventory = errors.New("not enough tickets available")
	ErrAlreadyCancelled      = errors.New("booking is already cancelled")

	// ErrConflict is a transient store conflict (serialization failure, deadlock).
	// The booking service retries it a bounded number of times.
	ErrConflict = errors.New("concurrent update conflict")
)
