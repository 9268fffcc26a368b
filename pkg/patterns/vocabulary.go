package patterns

import "regexp"

// Keyword tiers consumed by the risk indicator calculator. Matching is
// substring-based against normalized (lowercased) text, so every entry
// must be lowercase.

// HighRiskKeywords each occurrence feeds the strongest additive boost.
var HighRiskKeywords = []string{
	"attack",
	"hack",
	"exploit",
	"malware",
	"ransomware",
	"breach",
	"ddos",
}

// MediumRiskKeywords are counted but deliberately not scored. The signal
// is kept visible on RiskIndicators so downstream consumers (and a future
// scoring revision) can use it without a data-model change.
var MediumRiskKeywords = []string{
	"phishing",
	"scam",
	"fraud",
	"spoof",
	"steal",
	"leak",
}

// ToolKeywords indicate offensive tooling rather than intent.
var ToolKeywords = []string{
	"botnet",
	"keylogger",
	"rootkit",
	"trojan",
	"spyware",
}

// Urgency matches pressure language typical of social engineering.
var Urgency = regexp.MustCompile(`(?i)\b(urgent(ly)?|immediately|asap|right now|hurry|tonight|before midnight)\b`)

// Commercial matches buy/sell language indicating a criminal marketplace post.
var Commercial = regexp.MustCompile(`(?i)\b(buy|sell(ing)?|price|cheap|discount|payment|paypal|bitcoin|btc)\b`)

// ThreatVocabulary drives the THREAT_<WORD> display features. Presence is
// a substring test against normalized text.
var ThreatVocabulary = []string{
	"attack", "hack", "exploit", "breach", "malware", "ransomware",
	"ddos", "phishing", "botnet", "keylogger", "rootkit", "trojan",
	"spyware", "virus", "backdoor", "credential", "password", "spoof",
	"scam", "fraud", "leak", "payload", "inject", "stealer",
}

// Fallback keyword lists, used only when the sentiment classifier is
// unavailable. Kept separate from the indicator tiers: the fallback path
// trades precision for recall and uses a wider, flatter list.
var (
	// FallbackThreatKeywords add 0.2 each to the fallback risk score.
	FallbackThreatKeywords = []string{
		"attack", "hack", "exploit", "malware", "ransomware", "ddos",
		"phishing", "botnet", "keylogger", "trojan", "breach", "virus",
	}

	// FallbackCommercialKeywords add a flat 0.25 if any is present.
	FallbackCommercialKeywords = []string{"buy", "sell", "cheap", "price", "bitcoin"}

	// FallbackUrgencyKeywords add a flat 0.15 if any is present.
	FallbackUrgencyKeywords = []string{"urgent", "immediately", "asap", "hurry", "tonight"}
)
