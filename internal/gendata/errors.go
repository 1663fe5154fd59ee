package gendata

import "errors"

// Sentinel kinds for generation errors.
var (
	ErrBadConfig = errors.New("bad generation config")
	ErrSubmit    = errors.New("dataset submission failed")
)
