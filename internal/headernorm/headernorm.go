// Package headernorm canonicalizes header and address text so that layout
// identity is stable across casing, accents, and punctuation variants.
package headernorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var titleCaser = cases.Title(language.Spanish)

// punctuation characters treated as word separators in header text.
const separators = "_-.,;:/()"

// Normalize trims, lowercases, strips diacritical marks, maps separator
// punctuation to spaces, and collapses repeated whitespace. It is idempotent.
func Normalize(input string) string {
	lowered := strings.ToLower(strings.TrimSpace(input))

	stripped, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		stripped = lowered
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if strings.ContainsRune(separators, r) {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeAll normalizes every header, preserving order.
func NormalizeAll(headers []string) []string {
	normalized := make([]string, len(headers))
	for i, header := range headers {
		normalized[i] = Normalize(header)
	}
	return normalized
}

// Title renders a normalized value for human display ("san ramon" -> "San Ramon").
func Title(value string) string {
	return titleCaser.String(strings.TrimSpace(value))
}
