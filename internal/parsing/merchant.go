package parsing

import (
	"fmt"
	"strings"
	"unicode"
)

// Token is one token from the morphological analyzer: its surface form and
// the analyzer's feature vector for it.
type Token struct {
	Surface  string
	Features []string
}

// Tokenizer is the external morphological analysis collaborator
type Tokenizer interface {
	Tokenize(text string) ([]Token, error)
}

// IPA dictionary feature labels for proper-noun / organization tokens.
const (
	featureProperNoun   = "固有名詞"
	featureOrganization = "組織"
)

// MerchantExtractor derives organization-name candidates from tokenized text.
// The filter is precision-first: a missed merchant name is fine because the
// output is only ever a suggestion list, a misclassified token is not.
type MerchantExtractor struct {
	tokenizer Tokenizer
}

// NewMerchantExtractor creates a MerchantExtractor using the given tokenizer
func NewMerchantExtractor(tokenizer Tokenizer) *MerchantExtractor {
	return &MerchantExtractor{tokenizer: tokenizer}
}

// Extract returns the upper-cased surface forms of tokens classified as both
// proper noun and organization, in token order. Purely numeric surfaces are
// excluded.
func (e *MerchantExtractor) Extract(text string) ([]string, error) {
	tokens, err := e.tokenizer.Tokenize(text)
	if err != nil {
		return nil, fmt.Errorf("tokenizing text: %w", err)
	}

	var candidates []string
	for _, token := range tokens {
		if token.Surface == "" || !isOrganizationName(token.Features) || isAllDigits(token.Surface) {
			continue
		}
		candidates = append(candidates, strings.ToUpper(token.Surface))
	}
	return candidates, nil
}

// isOrganizationName inspects the grammatical sub-classification fields
// (indices 1-3 of the feature vector) for both the proper-noun and the
// organization labels.
func isOrganizationName(features []string) bool {
	end := 4
	if len(features) < end {
		end = len(features)
	}
	if end <= 1 {
		return false
	}
	sub := features[1:end]
	return containsFeature(sub, featureProperNoun) && containsFeature(sub, featureOrganization)
}

func containsFeature(features []string, want string) bool {
	for _, f := range features {
		if f == want {
			return true
		}
	}
	return false
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
