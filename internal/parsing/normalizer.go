package parsing

import "strings"

// Draft is the in-progress, human-editable extraction of one receipt. It is
// created here with a date, a description and the amount candidate set; the
// merchant and the selected amount are filled in by the reviewer.
type Draft struct {
	Date             string   `json:"date"`
	Merchant         string   `json:"merchant"`
	Description      string   `json:"description"`
	AmountCandidates []Amount `json:"amount_candidates"`
	SelectedAmount   int      `json:"selected_amount,omitempty"`
}

// Normalizer turns raw OCR text into a Draft. It has no network or storage
// side effects.
type Normalizer struct {
	dates *DateExtractor
}

// NewNormalizer creates a Normalizer backed by the system clock
func NewNormalizer() *Normalizer {
	return &Normalizer{dates: NewDateExtractor()}
}

// NewNormalizerWithTimeSource creates a Normalizer with a custom time source for testing
func NewNormalizerWithTimeSource(ts TimeSource) *Normalizer {
	return &Normalizer{dates: NewDateExtractorWithTimeSource(ts)}
}

// Normalize classifies the raw text's lines once, takes the date from the
// date lines, assembles the description from the remaining non-blank,
// non-amount lines joined by single spaces, and collects amount candidates
// from the full text. The merchant is left empty: organization-name
// suggestions are surfaced separately and never auto-assigned.
func (n *Normalizer) Normalize(rawText string) *Draft {
	classified := ClassifyLines(rawText)
	return &Draft{
		Date:             n.dates.fromDateLines(classified.DateLines),
		Description:      strings.TrimSpace(strings.Join(classified.DescriptionLines, " ")),
		AmountCandidates: ExtractAmounts(rawText),
	}
}
