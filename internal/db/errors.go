package db

import "errors"

// Domain-level database error sentinels.
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")

	// History errors
	ErrRecordNotFound = errors.New("record not found")
)
