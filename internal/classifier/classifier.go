// Package classifier assigns a topic category and a severity tier to a
// filtered diff, using ordered heuristic keyword rules.
package classifier

import (
	"regexp"
	"strings"

	"github.com/aleister1102/futwatch/internal/models"
)

// topicRule pairs a topic with the pattern that claims it. Rules are kept
// as a plain ordered slice: earlier rules win on keyword overlap, and the
// order is auditable at a glance.
type topicRule struct {
	topic   models.Topic
	pattern *regexp.Regexp
}

var topicRules = []topicRule{
	{models.TopicEvolutions, regexp.MustCompile(`(?i)(evolution|\bevo\b|eligibility|boosts|tasks)`)},
	{models.TopicSBC, regexp.MustCompile(`(?i)(sbc|challenge|group|template|squadRating|minRating|requirement|chem)`)},
	{models.TopicPacks, regexp.MustCompile(`(?i)(pack|store|price|\bstart\b|\bend\b|guarantee|rarity|weight)`)},
	{models.TopicObjectives, regexp.MustCompile(`(?i)(objective|task|milestone|season|reward)`)},
	{models.TopicLocales, regexp.MustCompile(`(?i)(locale|\bstring\b|en_us|string_catalog|messages_)`)},
	{models.TopicBundles, regexp.MustCompile(`(?i)(\.js\b|bundle|service-worker|manifest)`)},
	{models.TopicFlags, regexp.MustCompile(`(?i)(remoteconfig|feature|isEnabled|enableAt|rollout|treatment)`)},
}

var (
	enableFlipPattern = regexp.MustCompile(`isEnabled:\s*false\s*->\s*true`)
	addedPattern      = regexp.MustCompile(`\bADDED\b`)
)

// maxBlobLines bounds how many diff lines feed the topic match; the target
// name plus the head of the diff is enough signal.
const maxBlobLines = 10

// Classifier maps diff lines to topic and severity.
type Classifier struct{}

// NewClassifier creates a Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Topic tests the ordered rules against the target name concatenated with
// the first lines of the diff; the first matching rule wins, no match
// falls back to Other.
func (c *Classifier) Topic(target string, lines []string) models.Topic {
	head := lines
	if len(head) > maxBlobLines {
		head = head[:maxBlobLines]
	}
	blob := target + " " + strings.Join(head, " ")
	for _, rule := range topicRules {
		if rule.pattern.MatchString(blob) {
			return rule.topic
		}
	}
	return models.TopicOther
}

// Severity applies the strict three-tier priority: an enable flag flipping
// false to true means something went live, additions mean new content,
// anything else is an edit. Baseline events never reach this method.
func (c *Classifier) Severity(lines []string) models.Severity {
	text := strings.Join(lines, "\n")
	if enableFlipPattern.MatchString(text) {
		return models.SeverityLive
	}
	if addedPattern.MatchString(text) {
		return models.SeverityNew
	}
	return models.SeverityEdit
}
