package memory

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a flat, exact nearest-neighbour index using L2 distance.
// vectors[i] and chunks[i] always describe the same entry.
type VectorIndex struct {
	mu         sync.RWMutex
	dimensions int
	vectors    [][]float32
	chunks     []domain.Chunk
}

// NewVectorIndex creates an empty index for vectors of the given dimension
func NewVectorIndex(dimensions int) *VectorIndex {
	return &VectorIndex{dimensions: dimensions}
}

// NewVectorIndexFactory returns a factory producing empty memory indexes
func NewVectorIndexFactory() driven.VectorIndexFactory {
	return func(dimensions int) driven.VectorIndex {
		return NewVectorIndex(dimensions)
	}
}

// Reset discards all vectors and chunks
func (ix *VectorIndex) Reset() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.vectors = nil
	ix.chunks = nil
}

// Insert appends a vector and its chunk
func (ix *VectorIndex) Insert(vector []float32, chunk domain.Chunk) error {
	if len(vector) != ix.dimensions {
		return fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(vector), ix.dimensions)
	}

	v := make([]float32, len(vector))
	copy(v, vector)

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.vectors = append(ix.vectors, v)
	ix.chunks = append(ix.chunks, chunk)
	return nil
}

// Search returns the k entries closest to query by Euclidean distance.
// Results are in ascending distance; equal distances keep insertion order.
func (ix *VectorIndex) Search(query []float32, k int) ([]domain.SearchHit, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if k <= 0 || len(ix.vectors) == 0 {
		return []domain.SearchHit{}, nil
	}
	if len(query) != ix.dimensions {
		return nil, fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(query), ix.dimensions)
	}

	hits := make([]domain.SearchHit, len(ix.vectors))
	for i, v := range ix.vectors {
		hits[i] = domain.SearchHit{
			Chunk:    ix.chunks[i],
			Distance: l2Distance(v, query),
			Ordinal:  i,
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of stored entries
func (ix *VectorIndex) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.vectors)
}

// Dimensions returns the configured vector dimension
func (ix *VectorIndex) Dimensions() int {
	return ix.dimensions
}

func l2Distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
