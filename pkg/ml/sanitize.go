package ml

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Sanitize defends the keyword and pattern matchers against trivial
// Unicode evasion before any analysis runs: full-width and half-width
// variants are folded to their canonical forms, and invisible format
// runes (zero-width spaces, joiners, bidi controls, BOM, soft hyphen)
// are stripped. Plain ASCII input passes through unchanged.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}
	folded := width.Fold.String(text)
	return strings.Map(func(r rune) rune {
		// Cf covers ZWSP, ZWJ/ZWNJ, bidi overrides, BOM and soft hyphen.
		if unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, folded)
}
