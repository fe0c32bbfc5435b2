package store

import "errors"

var (
	// ErrStorage wraps any failure of the local persistence medium.
	// Callers treat it as fatal to the current operation but never to
	// the process: log, skip, carry on.
	ErrStorage = errors.New("local storage failure")

	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
)
