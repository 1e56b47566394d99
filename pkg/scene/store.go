package scene

import (
	"sync/atomic"

	"github.com/aretw0/actvis/pkg/domain"
)

// Store holds the current snapshot. Readers never observe a half-updated
// node/edge set: Replace builds a new snapshot and swaps it in one step.
type Store struct {
	current atomic.Pointer[Snapshot]
	version atomic.Uint64
}

// NewStore returns a store holding the empty scene.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(NewSnapshot(domain.Graph{}))
	return s
}

// Current returns the snapshot in effect.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Replace installs g as the new scene and returns its snapshot.
func (s *Store) Replace(g domain.Graph) *Snapshot {
	snap := NewSnapshot(g)
	snap.version = s.version.Add(1)
	s.current.Store(snap)
	return snap
}

// Clear installs the empty scene.
func (s *Store) Clear() *Snapshot {
	return s.Replace(domain.Graph{})
}
