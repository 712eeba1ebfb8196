package driven

import "context"

// TextExtractor pulls plain text out of an uploaded file.
type TextExtractor interface {
	// Extract returns the document text. Pages without text contribute "".
	Extract(ctx context.Context, filename string, data []byte) (string, error)

	// SupportedTypes returns MIME types this extractor handles.
	// Can include wildcards like "text/*" or "*/*".
	SupportedTypes() []string

	// Priority returns the extractor priority (higher = more specific).
	Priority() int
}

// ExtractorRegistry selects a TextExtractor by MIME type.
// When multiple extractors match, the highest priority one is used.
type ExtractorRegistry interface {
	// Get retrieves the best-matching extractor for a MIME type, or nil.
	Get(mimeType string) TextExtractor

	// Register registers an extractor.
	Register(extractor TextExtractor)

	// List returns all registered MIME types.
	List() []string
}
