package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

func TestSharedIndex_StartsEmpty(t *testing.T) {
	index := newTestIndex()

	if index.Len() != 0 {
		t.Errorf("expected empty index, got %d", index.Len())
	}
	if index.Current().Dimensions() != testDimensions {
		t.Errorf("expected %d dimensions, got %d", testDimensions, index.Current().Dimensions())
	}
}

func TestSharedIndex_RebuildReplaces(t *testing.T) {
	index := newTestIndex()
	seedIndex(t, index, []domain.Chunk{{Text: "old"}}, [][]float32{vec(1)})
	seedIndex(t, index, []domain.Chunk{{Text: "new-1"}, {Text: "new-2"}}, [][]float32{vec(1), vec(2)})

	texts := indexTexts(t, index)
	if len(texts) != 2 || texts[0] != "new-1" {
		t.Errorf("expected rebuilt contents, got %v", texts)
	}
}

func TestSharedIndex_PublishesPartialOnFailure(t *testing.T) {
	index := newTestIndex()
	boom := errors.New("boom")

	err := index.Rebuild(testDimensions, func(ix driven.VectorIndex) error {
		_ = ix.Insert(vec(1), domain.Chunk{Text: "kept"})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected build error, got %v", err)
	}
	if index.Len() != 1 {
		t.Errorf("expected partial index with 1 entry, got %d", index.Len())
	}
}

func TestSharedIndex_SearchDuringRebuild(t *testing.T) {
	index := newTestIndex()
	seedIndex(t, index, []domain.Chunk{{Text: "a"}, {Text: "b"}}, [][]float32{vec(1), vec(2)})

	building := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = index.Rebuild(testDimensions, func(ix driven.VectorIndex) error {
			close(building)
			<-release
			return ix.Insert(vec(3), domain.Chunk{Text: "c"})
		})
	}()

	<-building
	// The old index stays visible while the new one is being filled
	if index.Len() != 2 {
		t.Errorf("expected old index during rebuild, got %d entries", index.Len())
	}
	close(release)
	wg.Wait()

	if index.Len() != 1 {
		t.Errorf("expected new index after rebuild, got %d entries", index.Len())
	}
}
