package extractors

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// PDFExtractor concatenates the plain text of every page of a PDF.
// Pages without text contribute nothing.
type PDFExtractor struct{}

// Extract returns the concatenated page text. Unreadable or malformed
// documents fail with domain.ErrExtraction.
func (e *PDFExtractor) Extract(ctx context.Context, filename string, data []byte) (text string, err error) {
	// The parser panics on some malformed inputs
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%w: %s: malformed PDF: %v", domain.ErrExtraction, filename, rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrExtraction, filename, err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: %s: page %d: %v", domain.ErrExtraction, filename, i, err)
		}
		sb.WriteString(pageText)
	}

	return sb.String(), nil
}

// SupportedTypes includes the generic types browsers send for PDFs, so this
// extractor is also the fallback for untyped uploads.
func (e *PDFExtractor) SupportedTypes() []string {
	return []string{"application/pdf", "application/x-pdf", "application/octet-stream", "*/*"}
}

// Priority ranks below more specific extractors such as plaintext
func (e *PDFExtractor) Priority() int {
	return 10
}
