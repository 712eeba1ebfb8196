package services

import (
	"context"
	"testing"

	"github.com/custodia-labs/docqa/internal/adapters/driven/memory"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/docqa/internal/runtime"
)

const testDimensions = 8

// vec returns a test vector with x in the first component
func vec(x float32) []float32 {
	v := make([]float32, testDimensions)
	v[0] = x
	return v
}

// newTestServices wires gateways into a runtime registry; nil leaves a gateway unset
func newTestServices(emb driven.EmbeddingService, comp driven.CompletionService) *runtime.Services {
	svcs := runtime.NewServices(domain.NewRuntimeConfig("memory"))
	if emb != nil {
		svcs.SetEmbeddingService(emb)
	}
	if comp != nil {
		svcs.SetCompletionService(comp)
	}
	return svcs
}

func newTestIndex() *SharedIndex {
	return NewSharedIndex(memory.NewVectorIndexFactory(), testDimensions)
}

// seedIndex publishes an index holding the given chunks at the given vectors
func seedIndex(t *testing.T, index *SharedIndex, chunks []domain.Chunk, vectors [][]float32) {
	t.Helper()
	err := index.Rebuild(testDimensions, func(ix driven.VectorIndex) error {
		for i, c := range chunks {
			if err := ix.Insert(vectors[i], c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to seed index: %v", err)
	}
}

func newTestEmbedding() *mocks.MockEmbeddingService {
	emb := mocks.NewMockEmbeddingService()
	emb.SetDimensions(testDimensions)
	return emb
}

// indexTexts returns the chunk texts of the published index in insertion order
func indexTexts(t *testing.T, index *SharedIndex) []string {
	t.Helper()
	hits, err := index.Search(vec(0), index.Len())
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	texts := make([]string, len(hits))
	for _, h := range hits {
		texts[h.Ordinal] = h.Chunk.Text
	}
	return texts
}

func saveDocs(t *testing.T, store driven.DocumentStore, docs ...*domain.Document) {
	t.Helper()
	for _, d := range docs {
		if err := store.Save(context.Background(), d); err != nil {
			t.Fatalf("failed to save document: %v", err)
		}
	}
}
