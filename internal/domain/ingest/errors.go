package ingest

import "errors"

// Sentinel kinds for ingestion errors. Callers match with errors.Is.
var (
	// ErrSchema means the input rows lack the columns required for either
	// the long or the wide layout. Fatal to the whole batch.
	ErrSchema = errors.New("required columns missing")

	// ErrDataQuality means too large a share of rows failed row-level
	// validation. Fatal to the whole batch.
	ErrDataQuality = errors.New("too many unparsable rows")
)
