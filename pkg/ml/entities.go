package ml

import (
	"strings"

	"github.com/Jaysinh146/Riskify/pkg/patterns"
)

// ExtractEntities pattern-matches URLs/domains, IPv4 addresses, date and
// time expressions, and cybercrime-tool phrases out of raw text. It runs
// on non-normalized input: the patterns carry their own case-insensitivity
// flags, and normalization would destroy URL structure.
//
// Domains double as attack targets: the same deduplicated list is
// reported under both URLs and Targets.
func ExtractEntities(text string) Entities {
	e := EmptyEntities()
	if text == "" {
		return e
	}

	urls := dedupe(patterns.URL.FindAllString(text, -1))
	e.URLs = urls
	e.Targets = append([]string{}, urls...)

	e.IPs = dedupe(patterns.IPv4.FindAllString(text, -1))

	var dates []string
	dates = append(dates, patterns.DayWord.FindAllString(text, -1)...)
	dates = append(dates, patterns.NumericDate.FindAllString(text, -1)...)
	dates = append(dates, patterns.ClockTime.FindAllString(text, -1)...)
	e.Dates = dedupe(dates)

	var tools []string
	for _, re := range patterns.ToolPhrases {
		for _, m := range re.FindAllString(text, -1) {
			tools = append(tools, strings.ToLower(m))
		}
	}
	e.Tools = dedupe(tools)

	return e
}

// dedupe removes duplicates preserving first-occurrence order. It always
// returns a non-nil slice.
func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
