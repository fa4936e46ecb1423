// Package tokenize adapts the kagome morphological analyzer to the parsing
// package's Tokenizer interface. Kagome ships the IPA dictionary, whose
// feature vector layout (part of speech followed by three sub-classification
// fields) is what the merchant candidate filter expects.
package tokenize

import (
	"fmt"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/mkjt/ai-journal/internal/parsing"
)

// Kagome tokenizes Japanese text with the bundled IPA dictionary
type Kagome struct {
	tokenizer *tokenizer.Tokenizer
}

// New creates a Kagome tokenizer. BOS/EOS pseudo-tokens are omitted so every
// returned token has a real surface form.
func New() (*Kagome, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("building tokenizer: %w", err)
	}
	return &Kagome{tokenizer: t}, nil
}

// Tokenize returns the morphologically analyzed tokens of text in order
func (k *Kagome) Tokenize(text string) ([]parsing.Token, error) {
	analyzed := k.tokenizer.Tokenize(text)
	tokens := make([]parsing.Token, 0, len(analyzed))
	for _, t := range analyzed {
		tokens = append(tokens, parsing.Token{
			Surface:  t.Surface,
			Features: t.Features(),
		})
	}
	return tokens, nil
}
