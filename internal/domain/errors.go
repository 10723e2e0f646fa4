package domain

import "errors"

var (
	// ErrConstraintViolation covers duplicate user names, todos that reference
	// a missing user, and required fields left empty.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrNotFound is returned by single-row reads. Mutations on a missing row
	// report false instead.
	ErrNotFound = errors.New("not found")
)
