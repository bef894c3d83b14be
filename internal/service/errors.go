package service

import "errors"

// Sentinel errors services wrap so handlers can map failures to the right
// HTTP status without string matching.
var (
	// ErrNotFound marks lookups of sessions, users, exercises, or characters
	// that do not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalid marks requests that reference valid records in an invalid
	// way, like submitting to a completed session
	ErrInvalid = errors.New("invalid request")
)
