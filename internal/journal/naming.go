package journal

import (
	"errors"
	"fmt"

	"github.com/mkjt/ai-journal/internal/parsing"
)

// ErrInvalidDraft is returned when a draft reaches finalization without a
// selected amount.
var ErrInvalidDraft = errors.New("draft has no selected amount")

// Identifier derives the display/file identifier for a finalized draft:
// "{date}_{merchant}_{amount}". A blank merchant produces a degenerate but
// valid identifier. Identifiers are not unique: receipts sharing date,
// merchant and amount collide, and the later image rename silently wins.
func Identifier(draft *parsing.Draft) (string, error) {
	if draft.SelectedAmount <= 0 {
		return "", ErrInvalidDraft
	}
	return fmt.Sprintf("%s_%s_%d", draft.Date, draft.Merchant, draft.SelectedAmount), nil
}
