package service

import "errors"

var (
	// ErrValidation covers empty or oversized user messages. Rejected before
	// anything is persisted.
	ErrValidation = errors.New("invalid turn request")

	// ErrSessionNotFound is returned when the session does not exist or
	// belongs to another user.
	ErrSessionNotFound = errors.New("session not found or access denied")
)
