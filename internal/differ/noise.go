package differ

import "regexp"

// defaultNoisePattern matches known-volatile fields that change on every
// publish without carrying meaning: generation timestamps, build ids,
// version stamps, "last updated" markers.
const defaultNoisePattern = `(?i)(lastUpdated|generatedAt|build|timestamp|version)`

// NoiseFilter drops diff lines that only reflect volatile fields. It runs
// after either differ; when it removes every line the cycle is treated as
// "no meaningful change". Baseline events never pass through it.
type NoiseFilter struct {
	pattern *regexp.Regexp
}

// NewNoiseFilter creates a NoiseFilter with the default volatile-field pattern.
func NewNoiseFilter() *NoiseFilter {
	return &NoiseFilter{pattern: regexp.MustCompile(defaultNoisePattern)}
}

// Filter returns the lines that do not match the volatile-field pattern,
// preserving order.
func (nf *NoiseFilter) Filter(lines []string) []string {
	var kept []string
	for _, line := range lines {
		if !nf.pattern.MatchString(line) {
			kept = append(kept, line)
		}
	}
	return kept
}
