// Package nlp holds the small amount of text handling used for matching
// French free text: accent folding, word normalisation and phrase lookup.
package nlp

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reNonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	reSpaces  = regexp.MustCompile(`\s+`)
)

// Fold lower-cases s and strips diacritics: "Problème" becomes "probleme".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// NormalizeText folds s and reduces it to single-space separated words.
func NormalizeText(s string) string {
	s = Fold(s)
	s = reNonWord.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokens returns the words of an already normalised string.
func Tokens(normalized string) []string {
	if normalized == "" {
		return []string{}
	}
	return strings.Split(normalized, " ")
}

// ContainsPhrase reports whether the normalised phrase occurs in the
// normalised text as whole words, ignoring plural endings: "bug" matches
// "deux bugs ici" but not "debug".
func ContainsPhrase(normalizedText, normalizedPhrase string) bool {
	needle := singularTokens(normalizedPhrase)
	if len(needle) == 0 {
		return false
	}
	hay := singularTokens(normalizedText)
	for i := 0; i+len(needle) <= len(hay); i++ {
		if slices.Equal(hay[i:i+len(needle)], needle) {
			return true
		}
	}
	return false
}

// Singular drops the plural "s" or "x" of a normalised French word.
// Words of three letters or fewer are kept as is.
func Singular(word string) string {
	if len(word) > 3 && (strings.HasSuffix(word, "s") || strings.HasSuffix(word, "x")) {
		return word[:len(word)-1]
	}
	return word
}

func singularTokens(normalized string) []string {
	tokens := Tokens(normalized)
	for i, t := range tokens {
		tokens[i] = Singular(t)
	}
	return tokens
}

// ContainsFold is a case and accent insensitive substring test.
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}
