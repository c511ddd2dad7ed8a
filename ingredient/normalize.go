// Package ingredient parses free-text recipe ingredient lines and decides
// whether two ingredient names refer to the same thing.
package ingredient

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes an item name for comparison and for use as a
// reservation key: lower-cased, diacritics stripped, parentheticals removed,
// punctuation collapsed to single spaces, trivial plurals singularized.
// Normalize is idempotent.
func Normalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = removeParenthetical(s)
	s = stripDiacritics(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(' ')
	}

	fields := strings.Fields(b.String())
	if len(fields) == 0 {
		return ""
	}
	normalized := make([]string, 0, len(fields))
	for _, field := range fields {
		normalized = append(normalized, singularize(field))
	}
	return strings.Join(normalized, " ")
}

// Tokens splits a normalized name into its words.
func Tokens(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

// removeParenthetical drops parenthesized spans, including nested ones.
func removeParenthetical(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

// singularize trims trivial plural suffixes. The rules are chosen so that a
// second application is a no-op; grammatical perfection is not the goal,
// consistency between the two sides of a comparison is.
func singularize(s string) string {
	switch {
	case strings.HasSuffix(s, "ies") && len(s) > 4:
		return s[:len(s)-3] + "y"
	case strings.HasSuffix(s, "oes") && len(s) > 3:
		return s[:len(s)-2]
	case strings.HasSuffix(s, "ches") || strings.HasSuffix(s, "shes") ||
		strings.HasSuffix(s, "xes") || strings.HasSuffix(s, "zes"):
		if len(s) > 4 {
			return s[:len(s)-2]
		}
	case strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss") && len(s) > 2:
		return s[:len(s)-1]
	}
	return s
}
