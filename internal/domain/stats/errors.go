package stats

import "errors"

// Sentinel kinds for metrics errors.
var (
	// ErrStudentNotFound means no records exist for the requested student.
	// A missing student is never reported as a zero-filled result.
	ErrStudentNotFound = errors.New("student not found")
)
