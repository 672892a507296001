package lead

import "strings"

// Signal is the interpreted category of a free-text reply inside the
// qualification flow.
type Signal int

const (
	SignalUnrecognized Signal = iota
	SignalAffirmative
	SignalNegative
	SignalSkip
)

var affirmativeWords = []string{
	"yes", "y", "sure", "ok", "okay", "agree", "proceed", "yeah", "yep",
	"correct", "right", "fine", "go ahead", "please", "do it",
}

var negativeWords = []string{
	"no", "n", "nope", "cancel", "stop", "don't", "dont", "not", "decline",
}

var skipTokens = map[string]struct{}{
	"skip": {}, "s": {}, "-": {}, "na": {}, "n/a": {}, "no": {}, "pass": {},
}

// IsAffirmative reports whether text contains any affirmative word.
// Matching is case-insensitive substring containment, so short words
// like "y" match aggressively; the machine relies on this exact
// behavior.
func IsAffirmative(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	for _, w := range affirmativeWords {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// IsNegative reports whether text contains any refusal word.
func IsNegative(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	for _, w := range negativeWords {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// IsSkip reports whether text is exactly one of the skip tokens
// accepted for optional fields.
func IsSkip(text string) bool {
	_, ok := skipTokens[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

// Interpret tags a reply. Affirmative containment wins over the other
// categories, mirroring the order the machine applies the checks in.
func Interpret(text string) Signal {
	switch {
	case IsAffirmative(text):
		return SignalAffirmative
	case IsSkip(text):
		return SignalSkip
	case IsNegative(text):
		return SignalNegative
	default:
		return SignalUnrecognized
	}
}
