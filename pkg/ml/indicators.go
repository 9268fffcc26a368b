package ml

import (
	"strings"

	"github.com/Jaysinh146/Riskify/pkg/patterns"
)

// CalculateRiskIndicators counts keyword-tier occurrences in normalized
// text and evaluates the urgency and commercial-intent flags against raw
// text. Counts are non-overlapping substring occurrences (strings.Count):
// "ddosddos" counts "ddos" twice, "aaa" counts "aa" once. That
// undercounting is accepted; the enhancer caps each tier's boost anyway.
func CalculateRiskIndicators(text string) RiskIndicators {
	norm := Normalize(text)

	var ind RiskIndicators
	for _, kw := range patterns.HighRiskKeywords {
		ind.HighRiskCount += strings.Count(norm, kw)
	}
	for _, kw := range patterns.MediumRiskKeywords {
		ind.MediumRiskCount += strings.Count(norm, kw)
	}
	for _, kw := range patterns.ToolKeywords {
		ind.ToolCount += strings.Count(norm, kw)
	}

	if patterns.Urgency.MatchString(text) {
		ind.UrgencyScore = 1
	}
	if patterns.Commercial.MatchString(text) {
		ind.CommercialScore = 1
	}
	return ind
}
