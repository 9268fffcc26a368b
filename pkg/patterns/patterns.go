// Package patterns is the single source of truth for the regexes and
// keyword vocabularies used by the prediction pipeline. All regexes are
// compiled once at package init and shared across all callers.
//
// Design principles:
// - COMPILE ONCE: patterns compiled at init, not per-request
// - DRY: no keyword list or regex is duplicated outside this package
// - ORDERED: slices preserve evaluation order, which the score enhancer's
//   explanation text depends on
package patterns

import "regexp"

// AttackPattern is a named attack-signature regex with its score boost.
type AttackPattern struct {
	Name        string
	Regex       *regexp.Regexp
	Boost       float64
	Description string
}

// AttackPatterns are evaluated by the score enhancer in slice order.
// Each match adds its boost independently; all may fire on one text.
var AttackPatterns = []AttackPattern{
	{
		Name:        "ddos",
		Regex:       regexp.MustCompile(`(?i)\b(ddos|dos attack|denial[\s-]of[\s-]service|flood attack|amplification attack)\b`),
		Boost:       0.3,
		Description: "DDoS attack pattern detected",
	},
	{
		Name:        "phishing",
		Regex:       regexp.MustCompile(`(?i)\b(phish(ing|er)?|credential harvest(ing|er)?|fake login|spoofed (site|page|login|email))\b`),
		Boost:       0.3,
		Description: "Phishing pattern detected",
	},
	{
		Name:        "ransomware",
		Regex:       regexp.MustCompile(`(?i)\b(ransom(ware)?|crypto[\s-]?locker|file[\s-]?encryptor|encrypt(ed|ing)? files? for ransom)\b`),
		Boost:       0.3,
		Description: "Ransomware pattern detected",
	},
}

// Entity extraction patterns. These run against raw (non-normalized) text;
// case handling is done with (?i) flags, not by lowercasing the input.
var (
	// URL matches an optional scheme, optional www, and a hostname of the
	// shape label.label{2+}(.label{2+})?. Bare domains count: the demo
	// treats any mentioned domain as a potential attack target.
	URL = regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?[a-z0-9][a-z0-9-]*\.[a-z]{2,}(?:\.[a-z]{2,})?\b`)

	// IPv4 matches dotted quads with no octet range validation:
	// 999.999.999.999 is extracted. The downstream consumer decides
	// what to do with nonsense addresses.
	IPv4 = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)

	// DayWord matches weekday names and relative-day words.
	DayWord = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday|today|tomorrow|yesterday)\b`)

	// NumericDate matches D/M/YY[YY] and D-M-YY[YY].
	NumericDate = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)

	// ClockTime matches H:MM optionally followed by am/pm/utc/gmt.
	ClockTime = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}(?:\s?(?:am|pm|utc|gmt))?\b`)
)

// ToolPhrases are the eleven fixed cybercrime-tooling phrase patterns.
// Matches are lowercased and deduplicated by the entity extractor.
var ToolPhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bransomware\s+(builder|kit|tool)\b`),
	regexp.MustCompile(`(?i)\bphishing\s+(kit|tool|framework)\b`),
	regexp.MustCompile(`(?i)\b(ddos|dos)\s+(tool|bot|botnet)\b`),
	regexp.MustCompile(`(?i)\b(exploit|vulnerability)\s+(kit|scanner)\b`),
	regexp.MustCompile(`(?i)\bkeylogger\b`),
	regexp.MustCompile(`(?i)\bbotnet\b`),
	regexp.MustCompile(`(?i)\bcrypto\s?locker\b`),
	regexp.MustCompile(`(?i)\bemail\s+(templates|harvester)\b`),
	regexp.MustCompile(`(?i)\bcredential\s+(harvester|stealer)\b`),
	regexp.MustCompile(`(?i)\bnetwork\s+scanner\b`),
	regexp.MustCompile(`(?i)\bsocial\s+engineering\s+toolkit\b`),
}
