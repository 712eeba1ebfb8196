package driven

import "github.com/custodia-labs/docqa/internal/core/domain"

// VectorIndex stores fixed-dimension vectors alongside their chunks and
// answers exact nearest-neighbour queries by Euclidean distance.
// Vectors and chunks grow in lock-step and are only cleared together.
type VectorIndex interface {
	// Reset discards all vectors and chunks
	Reset()

	// Insert appends a vector and its chunk.
	// Returns ErrDimensionMismatch if len(vector) != Dimensions().
	Insert(vector []float32, chunk domain.Chunk) error

	// Search returns up to k hits in ascending distance, ties in insertion order.
	// An empty index yields no hits.
	Search(query []float32, k int) ([]domain.SearchHit, error)

	// Len returns the number of stored entries
	Len() int

	// Dimensions returns the configured vector dimension
	Dimensions() int
}

// VectorIndexFactory creates an empty index of the given dimension
type VectorIndexFactory func(dimensions int) VectorIndex
