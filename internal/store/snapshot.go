package store

import "sync/atomic"

// Snapshot holds the current Index for long-running servers. Readers call
// Load; a rebuild stores a new Index and in-flight readers keep the old one.
type Snapshot struct {
	p atomic.Pointer[Index]
}

// NewSnapshot returns a Snapshot holding ix.
func NewSnapshot(ix *Index) *Snapshot {
	s := &Snapshot{}
	s.Store(ix)
	return s
}

// Load returns the current Index. It is never nil.
func (s *Snapshot) Load() *Index {
	if ix := s.p.Load(); ix != nil {
		return ix
	}
	return New(nil)
}

// Store replaces the current Index.
func (s *Snapshot) Store(ix *Index) {
	s.p.Store(ix)
}
