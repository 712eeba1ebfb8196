package extractors

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// PlaintextExtractor passes text files through unchanged.
type PlaintextExtractor struct{}

// Extract returns data as a string, failing with domain.ErrExtraction
// unless it is valid UTF-8.
func (e *PlaintextExtractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s: not valid UTF-8", domain.ErrExtraction, filename)
	}
	return string(data), nil
}

// SupportedTypes matches every text/* MIME type
func (e *PlaintextExtractor) SupportedTypes() []string {
	return []string{"text/*"}
}

// Priority outranks the PDF fallback for text uploads
func (e *PlaintextExtractor) Priority() int {
	return 50
}
