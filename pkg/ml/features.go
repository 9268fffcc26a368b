package ml

import (
	"strings"

	"github.com/Jaysinh146/Riskify/pkg/patterns"
)

// minTokenLen drops stopword-sized tokens before feature generation.
const minTokenLen = 3

// ExtractFeatures derives display features from text: unigrams over
// normalized tokens, bigrams joined by "_", then THREAT_<WORD> flags for
// every threat-vocabulary word present as a substring. The list keeps
// generation order and makes no uniqueness guarantee; it feeds display
// only and has no effect on scoring.
func ExtractFeatures(text string) []string {
	norm := Normalize(text)
	if norm == "" {
		return []string{}
	}

	var tokens []string
	for _, tok := range strings.Fields(norm) {
		if len(tok) >= minTokenLen {
			tokens = append(tokens, tok)
		}
	}

	features := make([]string, 0, 2*len(tokens))
	features = append(features, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		features = append(features, tokens[i]+"_"+tokens[i+1])
	}

	for _, word := range patterns.ThreatVocabulary {
		if strings.Contains(norm, word) {
			features = append(features, "THREAT_"+strings.ToUpper(word))
		}
	}

	return features
}

// topFeatures returns the first n features for display.
func topFeatures(features []string, n int) []string {
	if len(features) <= n {
		return features
	}
	return features[:n]
}
