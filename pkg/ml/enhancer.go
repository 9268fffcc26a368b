package ml

import (
	"fmt"
	"math"
	"strings"

	"github.com/Jaysinh146/Riskify/pkg/patterns"
)

// Boost amounts for the additive scoring rules. Each rule contributes a
// fixed, order-independent amount; only the explanation text depends on
// evaluation order.
const (
	highRiskPerHit      = 0.2
	highRiskCap         = 0.4
	toolPerHit          = 0.15
	toolCap             = 0.3
	commercialBoost     = 0.25
	urgencyBoost        = 0.15
	confidencePerClause = 0.1
	confidenceCeiling   = 0.95
)

// Enhancement is the output of the rule-based score adjustment layer.
type Enhancement struct {
	RiskScore   float64
	Confidence  float64
	Explanation string
}

// Enhance turns the classifier's threat probability into a bounded risk
// score by applying the keyword-tier and attack-pattern boosts in fixed
// order. Confidence starts at the probability's distance from 0.5 (an
// uncertain model contributes no confidence) and grows with every rule
// that fires, capped below certainty.
func Enhance(text string, baseProb float64, ind RiskIndicators) Enhancement {
	risk := baseProb
	confidence := math.Abs(baseProb-0.5) * 2

	var clauses []string

	if ind.HighRiskCount > 0 {
		boost := math.Min(float64(ind.HighRiskCount)*highRiskPerHit, highRiskCap)
		risk += boost
		clauses = append(clauses, fmt.Sprintf("high-risk keywords (%d, +%.2f)", ind.HighRiskCount, boost))
	}

	if ind.ToolCount > 0 {
		boost := math.Min(float64(ind.ToolCount)*toolPerHit, toolCap)
		risk += boost
		clauses = append(clauses, fmt.Sprintf("attack tooling keywords (%d, +%.2f)", ind.ToolCount, boost))
	}

	if ind.CommercialScore > 0 {
		risk += commercialBoost
		clauses = append(clauses, fmt.Sprintf("commercial intent (+%.2f)", commercialBoost))
	}

	if ind.UrgencyScore > 0 {
		risk += urgencyBoost
		clauses = append(clauses, fmt.Sprintf("urgency language (+%.2f)", urgencyBoost))
	}

	for _, p := range patterns.AttackPatterns {
		if p.Regex.MatchString(text) {
			risk += p.Boost
			clauses = append(clauses, fmt.Sprintf("%s (+%.2f)", p.Description, p.Boost))
		}
	}

	risk = clamp01(risk)
	confidence = math.Min(confidence+confidencePerClause*float64(len(clauses)), confidenceCeiling)

	var explanation string
	if len(clauses) > 0 {
		explanation = fmt.Sprintf("Base model probability %.0f%%; adjusted for %s.",
			baseProb*100, strings.Join(clauses, "; "))
	} else {
		explanation = fmt.Sprintf("Based on model probability %.0f%% with no rule adjustments.",
			baseProb*100)
	}

	return Enhancement{
		RiskScore:   risk,
		Confidence:  clamp01(confidence),
		Explanation: explanation,
	}
}
