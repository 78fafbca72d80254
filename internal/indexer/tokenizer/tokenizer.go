// Package tokenizer provides text tokenisation for the search engine.
// It splits input on whitespace, lower-cases each token, and strips leading
// and trailing non-alphanumeric characters. There is no stemming and no
// stop-word removal: a query token matches an indexed token only when the
// two are literally equal, so the exact same policy runs at ingestion time
// and at query time.
package tokenizer

import (
	"strings"
	"unicode"
)

// Tokenize breaks text into an ordered slice of normalised tokens. It is a
// pure function: equal inputs always produce equal outputs.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.TrimFunc(strings.ToLower(field), isNonAlphanumeric)
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// Distinct returns the unique terms of a token sequence, preserving first
// occurrence order. Used on the query side where each term is scored once.
func Distinct(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	terms := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		terms = append(terms, token)
	}
	return terms
}

func isNonAlphanumeric(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
