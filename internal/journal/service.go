package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkjt/ai-journal/internal/ocr"
	"github.com/mkjt/ai-journal/internal/parsing"
)

// ErrStoreWrite marks a failed record-store write. The staged image file is
// intentionally left in place when this happens.
var ErrStoreWrite = errors.New("record store write failed")

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (defaultTimeSource) Now() time.Time {
	return time.Now()
}

// ExtractResult is what one OCR pass produces for review: the raw text, the
// normalized draft, and merchant suggestions. The suggestions are display
// only and are never written into the draft's merchant field.
type ExtractResult struct {
	RawText            string         `json:"raw_text"`
	Draft              *parsing.Draft `json:"draft"`
	MerchantCandidates []string       `json:"merchant_candidates"`
}

// Service handles receipt extraction and persistence
type Service struct {
	store      Store
	images     ImageStore
	extractor  ocr.TextExtractor
	normalizer *parsing.Normalizer
	merchants  *parsing.MerchantExtractor
	timeSource TimeSource
}

// NewService creates a new Service with the default time source
func NewService(store Store, images ImageStore, extractor ocr.TextExtractor, tokenizer parsing.Tokenizer) *Service {
	return NewServiceWithDeps(store, images, extractor, tokenizer, defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with a custom time source for testing
func NewServiceWithDeps(store Store, images ImageStore, extractor ocr.TextExtractor, tokenizer parsing.Tokenizer, timeSource TimeSource) *Service {
	return &Service{
		store:      store,
		images:     images,
		extractor:  extractor,
		normalizer: parsing.NewNormalizerWithTimeSource(timeSource),
		merchants:  parsing.NewMerchantExtractor(tokenizer),
		timeSource: timeSource,
	}
}

// Extract runs OCR over an uploaded image and normalizes the result into a
// reviewable draft. Empty OCR output still yields a draft: the date falls
// back to today and everything else stays empty.
func (s *Service) Extract(ctx context.Context, image []byte) (*ExtractResult, error) {
	rawText, err := s.extractor.ExtractText(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("extracting text: %w", err)
	}

	draft := s.normalizer.Normalize(rawText)

	merchants, err := s.merchants.Extract(rawText)
	if err != nil {
		// Suggestions are best effort; the draft stands without them
		slog.Warn("Failed to extract merchant candidates", "error", err)
		merchants = nil
	}

	return &ExtractResult{
		RawText:            rawText,
		Draft:              draft,
		MerchantCandidates: merchants,
	}, nil
}

// Persist runs the save sequence for a finalized draft: stage the image,
// derive the identifier, insert the record, rename the image into place.
//
// Failure policy per step: an invalid draft or a staging failure aborts with
// nothing persisted. A store failure leaves the staged file on disk and
// returns ErrStoreWrite. A rename failure after a successful insert is
// logged and swallowed: the record is still reported saved, with ImagePath
// pointing at the temporary file and ImageState set to ImageStaged.
func (s *Service) Persist(draft *parsing.Draft, image []byte, originalFilename string) (*Record, error) {
	identifier, err := Identifier(draft)
	if err != nil {
		return nil, err
	}

	stagedPath, err := s.images.Stage(originalFilename, image)
	if err != nil {
		return nil, fmt.Errorf("staging image: %w", err)
	}

	record := &Record{
		Date:        draft.Date,
		Merchant:    draft.Merchant,
		Description: draft.Description,
		Amount:      draft.SelectedAmount,
		TempName:    identifier,
		ImagePath:   stagedPath,
		ImageState:  ImageStaged,
	}
	if _, err := s.store.Insert(record); err != nil {
		// Staged file is left in place for manual recovery
		slog.Error("Failed to insert record", "identifier", identifier, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	finalPath, err := s.images.Rename(stagedPath, identifier)
	if err != nil {
		// Degraded success: the row exists and keeps the temporary path
		slog.Warn("Failed to rename staged image", "staged", stagedPath, "identifier", identifier, "error", err)
		return record, nil
	}

	record.ImagePath = finalPath
	record.ImageState = ImageFinal
	if err := s.store.Update(record); err != nil {
		slog.Warn("Failed to update image path after rename", "id", record.ID, "error", err)
	}
	return record, nil
}

// List returns all persisted records
func (s *Service) List() ([]*Record, error) {
	records, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return records, nil
}

// ReplaceAll swaps the whole table for the edited rows
func (s *Service) ReplaceAll(records []*Record) error {
	if err := s.store.ReplaceAll(records); err != nil {
		return fmt.Errorf("replacing records: %w", err)
	}
	return nil
}

// GetImage retrieves the image bytes for a record
func (s *Service) GetImage(id uint64) ([]byte, error) {
	record, err := s.store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}
	data, err := s.images.Get(record.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("getting record image: %w", err)
	}
	return data, nil
}
