// Package quality flags transient, ephemeral-looking content before it is
// committed as a durable insight. Warnings are advisory only: the write
// pipeline never blocks on them (spec §7, Quality: advisory only, never
// blocks).
package quality

import "regexp"

type pattern struct {
	re    *regexp.Regexp
	label string
}

// transientPatterns unions the original implementation's TRANSIENT_PATTERNS
// table with the additional categories named in the specification prose
// (line-number references, numeric corrections) that the original's
// smaller table omitted.
var transientPatterns = []pattern{
	{regexp.MustCompile(`(?i)i-[0-9a-f]{17}`), "AWS instance ID"},
	{regexp.MustCompile(`(?i)\d+ resources? total`), "resource count"},
	{regexp.MustCompile(`(?i)(?:all|every)\b.{0,30}\bverified`), "verification receipt"},
	{regexp.MustCompile(`(?i)state (?:is |was )?clean`), "state observation"},
	{regexp.MustCompile(`(?i)(?:deployed|completed|applied) via`), "deployment receipt"},
	{regexp.MustCompile(`(?i)\bline \d+\b`), "line number reference"},
	{regexp.MustCompile(`[\w./-]+:\d+\b`), "file:line reference"},
	{regexp.MustCompile(`\b\d+\s*(?:lines?|rows?|entries)\b`), "line-count phrase"},
	{regexp.MustCompile(`\b\d+\s*(?:→|->)\s*\d+\b`), "numeric correction"},
}

// Check scans content for transient patterns and returns human-readable
// warning labels; an empty slice means no concerns were found.
func Check(content string) []string {
	var warnings []string
	for _, p := range transientPatterns {
		if p.re.MatchString(content) {
			warnings = append(warnings, p.label)
		}
	}
	return warnings
}
