package services

import (
	"sort"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// RankChunks keeps the hits that belong to the session and orders them by
// upload recency of their file, most recent first. Distance order is dropped.
// Files absent from owned rank last. At most limit chunks are returned.
func RankChunks(hits []domain.SearchHit, sessionID string, owned []string, limit int) []domain.Chunk {
	type ranked struct {
		chunk    domain.Chunk
		position int
	}

	survivors := make([]ranked, 0, len(hits))
	for _, hit := range hits {
		pos := domain.FilenamePosition(owned, hit.Chunk.Filename)
		if pos < 0 || hit.Chunk.SessionID != sessionID {
			continue
		}
		survivors = append(survivors, ranked{chunk: hit.Chunk, position: pos})
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].position > survivors[j].position
	})

	if limit >= 0 && len(survivors) > limit {
		survivors = survivors[:limit]
	}

	chunks := make([]domain.Chunk, len(survivors))
	for i, r := range survivors {
		chunks[i] = r.chunk
	}
	return chunks
}
