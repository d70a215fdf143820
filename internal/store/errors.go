package store

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyPaid is returned when marking a split that is already paid.
	ErrAlreadyPaid = errors.New("split already marked as paid")
)
