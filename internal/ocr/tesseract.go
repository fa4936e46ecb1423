package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract implements the TextExtractor interface using a local tesseract
// installation. Useful when no Cloud Vision credentials are available.
type Tesseract struct {
	tessdataPrefix string
	languages      []string
}

// NewTesseract creates a new Tesseract TextExtractor instance
func NewTesseract(tessdataPrefix string, languages ...string) *Tesseract {
	if len(languages) == 0 {
		languages = []string{"jpn", "eng"}
	}
	return &Tesseract{
		tessdataPrefix: tessdataPrefix,
		languages:      languages,
	}
}

// ExtractText runs tesseract over the image bytes
func (t *Tesseract) ExtractText(ctx context.Context, image []byte) (string, error) {
	// gosseract clients are not safe for reuse across images
	client := gosseract.NewClient()
	defer client.Close()

	if t.tessdataPrefix != "" {
		client.SetTessdataPrefix(t.tessdataPrefix)
	}
	if err := client.SetLanguage(t.languages...); err != nil {
		return "", fmt.Errorf("setting language: %w", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("setting image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("extracting text: %w", err)
	}
	return text, nil
}

// Close closes the Tesseract extractor (no-op, clients are per-call)
func (t *Tesseract) Close() error {
	return nil
}
