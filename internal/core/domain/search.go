package domain

// DefaultTopK is the number of nearest neighbours retrieved per query
const DefaultTopK = 3

// SearchHit is one nearest-neighbour result from the vector index
type SearchHit struct {
	Chunk    Chunk   `json:"chunk"`
	Distance float64 `json:"distance"` // Euclidean (L2) distance to the query
	Ordinal  int     `json:"ordinal"`  // Insertion position in the index
}

// HitChunks extracts the chunks of a hit list, preserving order
func HitChunks(hits []SearchHit) []Chunk {
	chunks := make([]Chunk, len(hits))
	for i, h := range hits {
		chunks[i] = h.Chunk
	}
	return chunks
}
