package narrative

import "errors"

// Sentinel kinds for narrative errors.
var (
	// ErrUnknownKind means an event kind has no template. This is a
	// defect in rule configuration, not a user-facing condition.
	ErrUnknownKind = errors.New("no template for event kind")
)
