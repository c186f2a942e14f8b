// Package causal implements the causal-signal detection primitives shared
// by the causal edge generator and its causal-candidate surfacing
// (internal/edgegen): keyword-based causal signal detection, sub-type
// classification, and asymmetric token overlap.
package causal

import "regexp"

var (
	causalPattern = regexp.MustCompile(
		`(?i)\b(because|therefore|due to|caused by|as a result|decided to|` +
			`chosen because|so that|in order to|leads to|results in|` +
			`enables|prevents|consequently|hence|thus)\b|\bthis (ensures|means)\b`)

	causesPattern   = regexp.MustCompile(`(?i)\b(because|caused by|due to)\b`)
	enablesPattern  = regexp.MustCompile(`(?i)\b(so that|in order to|enables|leads to)\b`)
	preventsPattern = regexp.MustCompile(`(?i)\b(despite|prevented|prevents|blocked)\b`)
)

// HasSignal reports whether text contains a causal keyword.
func HasSignal(text string) bool {
	return causalPattern.MatchString(text)
}

// FindSignal returns the first causal keyword match in text, or "".
func FindSignal(text string) string {
	return causalPattern.FindString(text)
}

// SuggestSubType guesses a causal edge sub_type from combined text,
// checking prevents, then enables, defaulting to causes.
func SuggestSubType(text string) string {
	if preventsPattern.MatchString(text) {
		return "prevents"
	}
	if enablesPattern.MatchString(text) {
		return "enables"
	}
	return "causes"
}

// TokenOverlap computes |intersection| / max(|a|, |b|) over two token sets.
func TokenOverlap(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, big := a, b
	if len(b) < len(a) {
		small, big = b, a
	}
	intersection := 0
	for k := range small {
		if big[k] {
			intersection++
		}
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return float64(intersection) / float64(maxLen)
}
