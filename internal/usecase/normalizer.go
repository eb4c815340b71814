package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes a product name for comparison: accents are stripped,
// the text is lowercased, everything but ASCII letters, digits and whitespace is
// dropped, and whitespace runs collapse to one space.
// "  Lăpte   Zuzu!! " and "lapte zuzu" normalize to the same string.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	result := strings.ToLower(stripped)
	result = nonAlphanumericRegex.ReplaceAllString(result, "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// NormalizeKey is the strict form of Normalize with all spaces removed.
// It is only used where exact key equality is needed, never for tokenization.
func NormalizeKey(s string) string {
	return strings.ReplaceAll(Normalize(s), " ", "")
}
