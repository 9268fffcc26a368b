package ml

import (
	"math"
	"strings"
	"testing"
)

func TestFallbackPrediction_NoKeywords(t *testing.T) {
	p := FallbackPrediction("see you at the meeting", EmptyEntities(), nil)

	if !almostEqual(p.RiskScore, 0.1) {
		t.Errorf("riskScore = %v, want 0.1", p.RiskScore)
	}
	if !almostEqual(p.Confidence, 0.3) {
		t.Errorf("confidence = %v, want 0.3", p.Confidence)
	}
	if p.Label != LabelBenign {
		t.Errorf("label = %v, want benign", p.Label)
	}
	if p.RiskLevel != RiskLow {
		t.Errorf("riskLevel = %v, want low", p.RiskLevel)
	}
	if !strings.Contains(p.Explanation, "no risk keywords found") {
		t.Errorf("explanation = %q", p.Explanation)
	}
}

func TestFallbackPrediction_SingleThreatKeyword(t *testing.T) {
	p := FallbackPrediction("Plan DDoS on examplebank.com this Friday at 3 AM UTC", EmptyEntities(), nil)

	// Base 0.1 plus one keyword boost.
	if math.Abs(p.RiskScore-0.3) > 1e-9 {
		t.Errorf("riskScore = %v, want 0.3", p.RiskScore)
	}
	if !almostEqual(p.Confidence, 0.5) {
		t.Errorf("confidence = %v, want 0.5", p.Confidence)
	}
	if p.Label != LabelBenign {
		t.Errorf("label = %v, want benign at score <= 0.5", p.Label)
	}
	if p.RiskLevel != RiskLow {
		t.Errorf("riskLevel = %v, want low", p.RiskLevel)
	}
	if !strings.Contains(p.Explanation, "ddos") {
		t.Errorf("explanation = %q, want keyword listed", p.Explanation)
	}
	if !strings.Contains(p.Explanation, "fallback") {
		t.Errorf("explanation = %q, want fallback marker", p.Explanation)
	}
}

func TestFallbackPrediction_KeywordsStack(t *testing.T) {
	p := FallbackPrediction("hack attack with malware", EmptyEntities(), nil)

	if !almostEqual(p.RiskScore, 0.1+3*0.2) {
		t.Errorf("riskScore = %v, want 0.7", p.RiskScore)
	}
	if p.Label != LabelThreat {
		t.Errorf("label = %v, want threat", p.Label)
	}
	if p.RiskLevel != RiskHigh {
		t.Errorf("riskLevel = %v, want high", p.RiskLevel)
	}
	// Three keywords would push confidence to 0.9; the cap holds it at 0.8.
	if !almostEqual(p.Confidence, 0.8) {
		t.Errorf("confidence = %v, want 0.8", p.Confidence)
	}
}

func TestFallbackPrediction_CommercialAndUrgency(t *testing.T) {
	p := FallbackPrediction("buy it urgent", EmptyEntities(), nil)

	if !almostEqual(p.RiskScore, 0.1+0.25+0.15) {
		t.Errorf("riskScore = %v, want 0.5", p.RiskScore)
	}
	if p.Label != LabelBenign {
		t.Errorf("label = %v, want benign at exactly 0.5", p.Label)
	}
	// No threat keywords found, so confidence stays at the base.
	if !almostEqual(p.Confidence, 0.3) {
		t.Errorf("confidence = %v, want 0.3", p.Confidence)
	}
}

func TestFallbackPrediction_Clamped(t *testing.T) {
	p := FallbackPrediction(
		"urgent: buy ransomware, malware, trojan, botnet, keylogger, virus to hack and attack and breach via ddos phishing exploit",
		EmptyEntities(), nil)

	if p.RiskScore != 1.0 {
		t.Errorf("riskScore = %v, want clamped to 1.0", p.RiskScore)
	}
	if p.Confidence > 0.8 {
		t.Errorf("confidence = %v, want capped at 0.8", p.Confidence)
	}
	if p.Label != LabelThreat {
		t.Errorf("label = %v, want threat", p.Label)
	}
}

func TestFallbackPrediction_CarriesEntitiesAndFeatures(t *testing.T) {
	ents := Entities{
		Targets: []string{"examplebank.com"},
		Dates:   []string{"friday"},
		Tools:   []string{},
		URLs:    []string{"examplebank.com"},
		IPs:     []string{},
	}
	feats := []string{"ddos", "plan_ddos", "THREAT_DDOS"}
	p := FallbackPrediction("plan ddos", ents, feats)

	if len(p.Entities.Targets) != 1 || p.Entities.Targets[0] != "examplebank.com" {
		t.Errorf("entities not carried through: %+v", p.Entities)
	}
	if len(p.Features) != 3 {
		t.Errorf("features not carried through: %v", p.Features)
	}
}
