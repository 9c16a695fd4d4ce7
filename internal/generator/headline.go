// Package generator turns a classified diff into human-readable output: a
// one-line headline, a longer topic-specific post, and a shareable image
// card. Everything here is textual post-processing over already-computed
// diff lines; extraction is best-effort and a missing sub-field is an
// omission, not an error.
package generator

import (
	"fmt"
	"strings"

	"github.com/aleister1102/futwatch/internal/models"
)

// maxHeadlineTail bounds the fallback headline taken from the first diff line.
const maxHeadlineTail = 120

// HeadlineGenerator produces the short event headline.
type HeadlineGenerator struct{}

// NewHeadlineGenerator creates a HeadlineGenerator.
func NewHeadlineGenerator() *HeadlineGenerator {
	return &HeadlineGenerator{}
}

// MakeHeadline scans the diff lines for recognizable patterns in priority
// order: an enable flip, a rating field change, an addition with a keyed
// path, a list size change. The first pattern with a matching line wins;
// with no match the first line is truncated into the headline.
func (hg *HeadlineGenerator) MakeHeadline(topic models.Topic, lines []string) string {
	if len(lines) == 0 {
		return fmt.Sprintf("%s: change detected", topic)
	}

	for _, line := range lines {
		if strings.Contains(line, "isEnabled:") {
			return fmt.Sprintf("%s: enable flip (%s)", topic, strings.TrimSpace(line))
		}
	}
	for _, line := range lines {
		if strings.Contains(line, "minRating") || strings.Contains(line, "squadRating") {
			return fmt.Sprintf("%s: rating change (%s)", topic, strings.TrimSpace(line))
		}
	}
	for _, line := range lines {
		if strings.Contains(line, "ADDED") && strings.Contains(line, "[") && strings.Contains(line, "]") {
			subject := strings.TrimSpace(strings.SplitN(line, ":", 2)[0])
			return fmt.Sprintf("%s: new item %s", topic, subject)
		}
	}
	for _, line := range lines {
		if strings.Contains(line, "LIST") {
			return fmt.Sprintf("%s: list size changed (%s)", topic, strings.TrimSpace(line))
		}
	}

	tail := lines[0]
	if len(tail) > maxHeadlineTail {
		tail = tail[:maxHeadlineTail]
	}
	return fmt.Sprintf("%s: %s", topic, tail)
}
