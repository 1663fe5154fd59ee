package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrNotStarted means a query arrived before Start.
	ErrNotStarted = errors.New("service not started")

	// ErrMissingTemplate means an insight kind has no narrative template.
	// Start fails rather than letting the defect surface mid-query.
	ErrMissingTemplate = errors.New("insight kind without narrative template")
)
