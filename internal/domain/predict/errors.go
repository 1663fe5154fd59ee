package predict

import "errors"

// Sentinel kinds for derived-analytics errors.
var (
	// ErrInsufficientData means the analytic needs more history or more
	// samples than the snapshot holds. Per-query; never blocks others.
	ErrInsufficientData = errors.New("insufficient data")
)
