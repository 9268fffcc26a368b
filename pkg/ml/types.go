package ml

// Label is the binary classification outcome.
type Label string

const (
	LabelThreat Label = "threat"
	LabelBenign Label = "benign"
)

// RiskLevel is the three-tier triage bucket derived from the risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskLevelFor buckets a risk score: >=0.7 high, >=0.4 medium, else low.
func RiskLevelFor(score float64) RiskLevel {
	switch {
	case score >= 0.7:
		return RiskHigh
	case score >= 0.4:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Entities holds the structured mentions extracted from a message.
// Each list is ordered by first occurrence and contains no duplicates.
type Entities struct {
	Targets []string `json:"targets"`
	Dates   []string `json:"dates"`
	Tools   []string `json:"tools"`
	URLs    []string `json:"urls"`
	IPs     []string `json:"ips"`
}

// EmptyEntities returns an Entities value with all lists non-nil, so JSON
// consumers always see arrays rather than nulls.
func EmptyEntities() Entities {
	return Entities{
		Targets: []string{},
		Dates:   []string{},
		Tools:   []string{},
		URLs:    []string{},
		IPs:     []string{},
	}
}

// RiskIndicators are the per-call keyword signals feeding the score
// enhancer. MediumRiskCount is carried but not scored; see the vocabulary
// package for why it is kept.
type RiskIndicators struct {
	HighRiskCount   int `json:"high_risk_count"`
	MediumRiskCount int `json:"medium_risk_count"`
	ToolCount       int `json:"tool_count"`
	UrgencyScore    int `json:"urgency_score"`    // 0 or 1
	CommercialScore int `json:"commercial_score"` // 0 or 1
}

// Prediction is the immutable result of classifying one message.
// Label is always consistent with the 0.5 threshold on RiskScore, and
// RiskScore and Confidence are always within [0,1].
type Prediction struct {
	Label       Label     `json:"label"`
	Confidence  float64   `json:"confidence"`
	RiskScore   float64   `json:"risk_score"`
	RiskLevel   RiskLevel `json:"risk_level"`
	Entities    Entities  `json:"entities"`
	Explanation string    `json:"explanation"`
	Features    []string  `json:"features"`

	// ProcessingTimeMs is wall-clock time spent producing this value for
	// the current call. It is not part of the cached value: cache hits
	// report their own (near-zero) elapsed time.
	ProcessingTimeMs float64 `json:"processing_time_ms"`
}

// Status reports classifier lifecycle state. It never blocks to compute.
type Status struct {
	IsReady   bool `json:"is_ready"`
	IsLoading bool `json:"is_loading"`
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
