package postgres

import "errors"

// ErrNotFound is returned when a row the caller addressed does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a users insert violates the email unique
// constraint.
var ErrDuplicateEmail = errors.New("email already registered")
