package ocr

import "context"

// TextExtractor defines the interface for OCR operations
type TextExtractor interface {
	// ExtractText returns the full raw text detected in the image. An empty
	// string means the provider found no text; that is not an error.
	ExtractText(ctx context.Context, image []byte) (string, error)
	// Close closes the extractor and releases resources
	Close() error
}
