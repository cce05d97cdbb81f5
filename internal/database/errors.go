package database

import "errors"

var (
	// ErrBookmarkNotFound is returned when an operation references
	// a bookmark id that doesn't exist.
	ErrBookmarkNotFound = errors.New("bookmark not found")
	// ErrConstraintViolation is returned when a write is rejected
	// by a schema constraint (CHECK or NOT NULL).
	ErrConstraintViolation = errors.New("constraint violation")
)
