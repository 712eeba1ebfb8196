package services

import (
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// SharedIndex owns the process-wide vector index.
// Rebuilds happen on a private index that is swapped in when done, so a
// search never observes a half-reset index. Rebuilds are serialized.
type SharedIndex struct {
	factory driven.VectorIndexFactory

	buildMu sync.Mutex

	mu      sync.RWMutex
	current driven.VectorIndex
}

// NewSharedIndex creates a holder with an empty index of the given dimension
func NewSharedIndex(factory driven.VectorIndexFactory, dimensions int) *SharedIndex {
	return &SharedIndex{
		factory: factory,
		current: factory(dimensions),
	}
}

// Current returns the published index
func (s *SharedIndex) Current() driven.VectorIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Len returns the number of entries in the published index
func (s *SharedIndex) Len() int {
	return s.Current().Len()
}

// Search queries the published index
func (s *SharedIndex) Search(query []float32, k int) ([]domain.SearchHit, error) {
	return s.Current().Search(query, k)
}

// Rebuild fills a fresh index with build and publishes it.
// The index is published even when build fails; partial state is kept.
func (s *SharedIndex) Rebuild(dimensions int, build func(driven.VectorIndex) error) error {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	next := s.factory(dimensions)
	err := build(next)
	s.publish(next)
	return err
}

func (s *SharedIndex) publish(ix driven.VectorIndex) {
	s.mu.Lock()
	s.current = ix
	s.mu.Unlock()
}
