package repository

import (
	"context"
	"fmt"
	"sync/atomic"
)

// SnapshotStore implements Store with a single atomic pointer. Reads
// never block writes and vice versa; a query that resolved a snapshot
// keeps computing against it even while a new dataset is being swapped
// in.
type SnapshotStore struct {
	active atomic.Pointer[Snapshot]
}

// NewSnapshotStore creates an empty store. Active fails with ErrNoData
// until the first Swap.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Swap atomically replaces the active snapshot.
func (s *SnapshotStore) Swap(_ context.Context, snap *Snapshot) string {
	s.active.Store(snap)
	return snap.Version()
}

// Active returns the current snapshot.
func (s *SnapshotStore) Active(_ context.Context) (*Snapshot, error) {
	snap := s.active.Load()
	if snap == nil {
		return nil, fmt.Errorf("%w: upload a dataset first", ErrNoData)
	}
	return snap, nil
}
