// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// Job creation errors.
	ErrJobCreationFailed = errors.New("job creation failed")
	ErrStrictMatching    = errors.New("unmatched stock item under strict matching")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)
