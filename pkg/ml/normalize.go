package ml

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance. These are
// compiled once at startup instead of on every call.
var (
	// Everything outside word characters, whitespace and . ! ? @ - _
	// is noise for keyword matching and becomes a space.
	reNonEssential = regexp.MustCompile(`[^\w\s.!?@_-]`)
	reWhitespace   = regexp.MustCompile(`\s+`)
)

// Normalize lowercases text, replaces non-essential punctuation with
// spaces, collapses whitespace runs and trims. It never fails; empty
// input yields an empty string.
//
// All substring keyword matching in this package runs against normalized
// text, so the keyword vocabularies are lowercase by construction.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	s := strings.ToLower(text)
	s = reNonEssential.ReplaceAllString(s, " ")
	s = reWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
