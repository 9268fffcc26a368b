package ml

import (
	"fmt"
	"math"
	"strings"

	"github.com/Jaysinh146/Riskify/pkg/patterns"
)

// Fallback scoring constants. The fallback trades the model's base signal
// for a fixed low prior plus flat keyword boosts, and caps its confidence
// well below what the model path can reach.
const (
	fallbackBaseRisk       = 0.1
	fallbackKeywordBoost   = 0.2
	fallbackCommercial     = 0.25
	fallbackUrgency        = 0.15
	fallbackBaseConfidence = 0.3
	fallbackConfidenceCap  = 0.8
)

// FallbackPrediction classifies with rules only, used when the sentiment
// model is unavailable or errors. Entities and features are passed in so
// the result shape matches a model-backed prediction.
func FallbackPrediction(text string, entities Entities, features []string) Prediction {
	norm := Normalize(text)

	risk := fallbackBaseRisk
	var found []string
	for _, kw := range patterns.FallbackThreatKeywords {
		if strings.Contains(norm, kw) {
			found = append(found, kw)
			risk += fallbackKeywordBoost
		}
	}

	var clauses []string
	if len(found) > 0 {
		clauses = append(clauses, fmt.Sprintf("threat keywords: %s", strings.Join(found, ", ")))
	}
	if containsAny(norm, patterns.FallbackCommercialKeywords) {
		risk += fallbackCommercial
		clauses = append(clauses, "commercial keywords present")
	}
	if containsAny(norm, patterns.FallbackUrgencyKeywords) {
		risk += fallbackUrgency
		clauses = append(clauses, "urgency keywords present")
	}

	if risk > 1 {
		risk = 1
	}
	confidence := math.Min(float64(len(found))*fallbackKeywordBoost+fallbackBaseConfidence, fallbackConfidenceCap)

	explanation := "Rule-based fallback (sentiment model unavailable): "
	if len(clauses) > 0 {
		explanation += strings.Join(clauses, "; ") + "."
	} else {
		explanation += "no risk keywords found."
	}

	return Prediction{
		Label:       labelFor(risk),
		Confidence:  confidence,
		RiskScore:   risk,
		RiskLevel:   RiskLevelFor(risk),
		Entities:    entities,
		Explanation: explanation,
		Features:    features,
	}
}

// labelFor applies the 0.5 threshold that keeps Label consistent with
// RiskScore on every path, fallback included.
func labelFor(risk float64) Label {
	if risk > 0.5 {
		return LabelThreat
	}
	return LabelBenign
}

func containsAny(norm string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(norm, kw) {
			return true
		}
	}
	return false
}
