package generator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aleister1102/futwatch/internal/models"
)

// maxPostLines bounds the raw change listing appended to every post.
const maxPostLines = 20

var (
	titleLinePattern  = regexp.MustCompile(`(?i)(name|title)\b[^:]*:`)
	rewardLinePattern = regexp.MustCompile(`(?i)reward`)
	windowLinePattern = regexp.MustCompile(`(?i)(startTime|endTime|enableAt|expiresAt|\.start\b|\.end\b)`)
	numericReqPattern = regexp.MustCompile(`(?i)(minRating|squadRating|chem|rating|count)[^:]*:\s*(.+)`)
	quotedPattern     = regexp.MustCompile(`"([^"]*)"`)
)

// postFields is the partially-populated record a renderer extracts from the
// diff lines. An empty field was simply not found and is left out of the
// rendered text.
type postFields struct {
	Title        string
	Reward       string
	Window       []string
	Requirements []string
}

// PostGenerator renders topic-specific change summaries.
type PostGenerator struct{}

// NewPostGenerator creates a PostGenerator.
func NewPostGenerator() *PostGenerator {
	return &PostGenerator{}
}

// PostFor assembles a multi-section report for the given topic from the
// diff lines. Topics without a dedicated renderer get the generic
// bullet-list form.
func (pg *PostGenerator) PostFor(topic models.Topic, lines []string) string {
	fields := extractFields(lines)
	switch topic {
	case models.TopicSBC:
		return renderSections(fmt.Sprintf("%s update", topic), fields, lines, true)
	case models.TopicObjectives, models.TopicEvolutions, models.TopicPacks:
		return renderSections(fmt.Sprintf("%s update", topic), fields, lines, false)
	default:
		return renderGeneric(topic, lines)
	}
}

// extractFields scans the diff lines for known sub-fields. Scans are
// targeted and tolerant: the first plausible match per field wins and
// anything absent stays absent.
func extractFields(lines []string) postFields {
	var fields postFields
	for _, line := range lines {
		switch {
		case fields.Title == "" && titleLinePattern.MatchString(line):
			fields.Title = lastQuoted(line)
		case fields.Reward == "" && rewardLinePattern.MatchString(line):
			fields.Reward = valuePart(line)
		case windowLinePattern.MatchString(line):
			fields.Window = append(fields.Window, strings.TrimSpace(line))
		}
		if m := numericReqPattern.FindStringSubmatch(line); m != nil {
			fields.Requirements = append(fields.Requirements, strings.TrimSpace(line))
		}
	}
	return fields
}

// lastQuoted returns the last quoted string on the line: for changed
// entries (`old -> new`) that is the new value.
func lastQuoted(line string) string {
	matches := quotedPattern.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return valuePart(line)
	}
	return matches[len(matches)-1][1]
}

// valuePart returns everything after the first colon, trimmed.
func valuePart(line string) string {
	parts := strings.SplitN(line, ":", 2)
	if len(parts) < 2 {
		return strings.TrimSpace(line)
	}
	return strings.TrimSpace(parts[1])
}

func renderSections(heading string, fields postFields, lines []string, withRequirements bool) string {
	var sb strings.Builder
	sb.WriteString(heading)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", len(heading)))
	sb.WriteString("\n")

	if fields.Title != "" {
		fmt.Fprintf(&sb, "Title: %s\n", fields.Title)
	}
	if withRequirements && len(fields.Requirements) > 0 {
		sb.WriteString("Requirements:\n")
		for _, req := range fields.Requirements {
			fmt.Fprintf(&sb, "  - %s\n", req)
		}
	}
	if fields.Reward != "" {
		fmt.Fprintf(&sb, "Reward: %s\n", fields.Reward)
	}
	if len(fields.Window) > 0 {
		sb.WriteString("Window:\n")
		for _, w := range fields.Window {
			fmt.Fprintf(&sb, "  - %s\n", w)
		}
	}

	sb.WriteString("\nChanges:\n")
	writeBullets(&sb, lines)
	return sb.String()
}

func renderGeneric(topic models.Topic, lines []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s change summary\n\n", topic)
	writeBullets(&sb, lines)
	return sb.String()
}

func writeBullets(sb *strings.Builder, lines []string) {
	shown := lines
	if len(shown) > maxPostLines {
		shown = shown[:maxPostLines]
	}
	for _, line := range shown {
		fmt.Fprintf(sb, "  - %s\n", line)
	}
	if len(lines) > maxPostLines {
		fmt.Fprintf(sb, "  ... and %d more\n", len(lines)-maxPostLines)
	}
}
