package repository

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	// ErrNoData means no dataset has been activated yet.
	ErrNoData = errors.New("no active dataset")
)
