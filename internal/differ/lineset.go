package differ

import (
	"regexp"
	"sort"
	"strings"
)

// defaultLinePattern selects the lines worth tracking in unstructured
// payloads (bundled JS, HTML shells, service workers).
const defaultLinePattern = `(?i)(SBC|Objective|Promo|Challenge|Season|Pack|isEnabled|manifest|service-worker|Evolution)`

// LineSetDiffer is the fallback differ for text payloads. It reduces a
// payload to the set of lines matching domain keywords and reports only the
// lines present in the new capture but not the old one. Removed lines are
// not reported: the intent is "what's new", and the asymmetry is a known,
// deliberate limitation of this mode.
type LineSetDiffer struct {
	pattern *regexp.Regexp
}

// NewLineSetDiffer creates a LineSetDiffer with the default keyword pattern.
func NewLineSetDiffer() *LineSetDiffer {
	return &LineSetDiffer{pattern: regexp.MustCompile(defaultLinePattern)}
}

// ExtractLines returns the keyword-matching lines of a raw text payload.
func (ld *LineSetDiffer) ExtractLines(raw []byte) []string {
	var matched []string
	for _, line := range strings.Split(string(raw), "\n") {
		if ld.pattern.MatchString(line) {
			matched = append(matched, line)
		}
	}
	return matched
}

// Diff returns the lines present in curr but not prev, sorted.
func (ld *LineSetDiffer) Diff(prev, curr []string) []string {
	seen := make(map[string]struct{}, len(prev))
	for _, line := range prev {
		seen[line] = struct{}{}
	}

	addedSet := make(map[string]struct{})
	for _, line := range curr {
		if _, ok := seen[line]; !ok {
			addedSet[line] = struct{}{}
		}
	}

	added := make([]string, 0, len(addedSet))
	for line := range addedSet {
		added = append(added, line)
	}
	sort.Strings(added)
	return added
}
