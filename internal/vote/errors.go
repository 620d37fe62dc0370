package vote

import "errors"

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrInvalidChoice   = errors.New("invalid choice")
	ErrUnauthenticated = errors.New("authentication required")
	ErrUnauthorized    = errors.New("admin access required")

	// ErrStoreConflict means a concurrent write for the same (game, user) pair won the race.
	ErrStoreConflict = errors.New("concurrent vote update, try again")
)
