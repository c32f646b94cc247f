// Package textnorm provides text canonicalization for the filtering
// predicates. All comparisons in the classification chain go through
// Normalize so that stored names, configured terms, and scraped text
// agree on one canonical form.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and removes combining marks, which folds
// "café" and "cafe" onto the same string.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// Normalize lower-cases s, strips diacritical marks, and trims surrounding
// whitespace. Total: any input yields a usable result, never an error.
func Normalize(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		// Malformed UTF-8 or similar; fall back to the untransformed text.
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// ContainsTerm reports whether haystack contains term as a whole word,
// case- and diacritic-insensitive. A simple English plural or possessive
// suffix ("s", "'s") on the matched word is accepted, so term "cat"
// matches "cats" and "cat's" but not "scatter". Word boundaries are any
// rune that is not a letter, digit, or underscore (Unicode-aware).
func ContainsTerm(haystack, term string) bool {
	h := Normalize(haystack)
	t := Normalize(term)
	if t == "" || h == "" {
		return false
	}

	for start := 0; ; {
		i := strings.Index(h[start:], t)
		if i < 0 {
			return false
		}
		i += start

		if boundedAt(h, i, i+len(t)) {
			return true
		}
		start = i + 1
	}
}

// boundedAt reports whether h[i:j] sits on word boundaries, allowing an
// "s" or "'s" suffix between j and the closing boundary.
func boundedAt(h string, i, j int) bool {
	if !boundaryBefore(h, i) {
		return false
	}
	if boundaryAfter(h, j) {
		return true
	}
	// Allow "'s" then "s" so "cat's" is checked before "cats".
	if strings.HasPrefix(h[j:], "'s") && boundaryAfter(h, j+2) {
		return true
	}
	if strings.HasPrefix(h[j:], "s") && boundaryAfter(h, j+1) {
		return true
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r := lastRune(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r := firstRune(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}
