// Package chunking splits document text into fixed-size windows for embedding.
package chunking

import (
	"iter"
	"slices"
	"unicode/utf8"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DefaultChunkSize is the maximum number of characters per chunk
const DefaultChunkSize = 1000

// ChunkConfig configures the chunker behavior.
type ChunkConfig struct {
	// Size is the maximum characters (runes) per chunk
	Size int
}

// DefaultChunkConfig returns the production chunk configuration.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{Size: DefaultChunkSize}
}

// Chunker cuts text into contiguous, non-overlapping windows of at most
// Size characters. Concatenating the windows in order yields the input.
type Chunker struct {
	size int
}

// NewChunker creates a new chunker with the given config.
// A non-positive size falls back to DefaultChunkSize.
func NewChunker(config ChunkConfig) *Chunker {
	if config.Size <= 0 {
		config.Size = DefaultChunkSize
	}
	return &Chunker{size: config.Size}
}

// Size returns the window size in characters.
func (c *Chunker) Size() int {
	return c.size
}

// Chunks returns a lazy sequence of windows over text.
// The sequence can be ranged over any number of times.
func (c *Chunker) Chunks(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start, runes := 0, 0
		for i := range text {
			if runes == c.size {
				if !yield(text[start:i]) {
					return
				}
				start, runes = i, 0
			}
			runes++
		}
		if start < len(text) {
			yield(text[start:])
		}
	}
}

// Split collects all windows over text.
func (c *Chunker) Split(text string) []string {
	return slices.Collect(c.Chunks(text))
}

// Count returns the number of windows text produces without building them.
func (c *Chunker) Count(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + c.size - 1) / c.size
}

// ChunkDocument yields the document's windows as chunks tagged with its
// filename and owning session.
func (c *Chunker) ChunkDocument(doc *domain.Document) iter.Seq[domain.Chunk] {
	return func(yield func(domain.Chunk) bool) {
		for text := range c.Chunks(doc.RawText) {
			chunk := domain.Chunk{
				Text:      text,
				Filename:  doc.Filename,
				SessionID: doc.SessionID,
			}
			if !yield(chunk) {
				return
			}
		}
	}
}
