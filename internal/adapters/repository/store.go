// Package repository holds the active dataset snapshot. A snapshot is
// immutable once built; activating a new dataset is a single atomic
// pointer swap, so readers in flight keep the version they resolved and
// never see a partially updated mix.
package repository

import "context"

// Store provides access to the active dataset snapshot.
type Store interface {
	// Swap atomically replaces the active snapshot and returns the new
	// version id.
	Swap(ctx context.Context, snap *Snapshot) string

	// Active returns the current snapshot.
	// Returns ErrNoData before the first swap.
	Active(ctx context.Context) (*Snapshot, error)
}
