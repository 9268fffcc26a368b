package ml

import "context"

// SentimentResult is the validated boundary type for classifier output.
// The model's output shape is a foreign contract; everything past this
// point sees only a label string and a score in [0,1].
type SentimentResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier is a binary sentiment model. Implementations must be safe
// for concurrent use.
//
// Init is heavy (model load or endpoint warmup) and idempotent; callers
// are expected to serialize it themselves; the Predictor does so with a
// single-flight guard. Classify returns an error rather than panicking
// when the model is unavailable; the Predictor degrades to the rule-only
// fallback on any error.
type Classifier interface {
	Init(ctx context.Context) error
	Classify(ctx context.Context, text string) (SentimentResult, error)
	Ready() bool
	Close() error
}

// isNegativeLabel reports whether a label denotes negative sentiment.
// Different models use different conventions:
// - SST-2 DistilBERT: "NEGATIVE" vs "POSITIVE"
// - Twitter RoBERTa: "negative" / "neutral" / "positive"
// - Generic ONNX exports: "LABEL_0" (negative) vs "LABEL_1"
func isNegativeLabel(label string) bool {
	switch label {
	case "NEGATIVE", "negative", "LABEL_0", "neg":
		return true
	default:
		return false
	}
}

// ThreatProbability repurposes a sentiment result as a malicious-intent
// proxy: the probability mass assigned to negative sentiment. This is a
// deliberate demo heuristic, not an NLP-correct threat signal; the rule
// layer on top exists precisely because this base signal is weak.
func ThreatProbability(res SentimentResult) float64 {
	score := clamp01(res.Score)
	if isNegativeLabel(res.Label) {
		return score
	}
	return 1 - score
}
