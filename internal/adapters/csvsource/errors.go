package csvsource

import "errors"

// Sentinel kinds for CSV source errors.
var (
	// ErrNoHeader means the input had no header row to map columns from.
	ErrNoHeader = errors.New("missing csv header")
)
