package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aleister1102/futwatch/internal/models"
)

func TestTopicFromTargetName(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		target string
		lines  []string
		want   models.Topic
	}{
		{"sbc_catalog", []string{"challenges: LIST 1 -> 2"}, models.TopicSBC},
		{"store_offers", []string{"price: 100 -> 50"}, models.TopicPacks},
		{"objective_list", []string{"milestone.reward: ADDED \"pack\""}, models.TopicObjectives},
		{"loc_en", []string{"messages_en: ADDED"}, models.TopicLocales},
		{"webapp", []string{"main.js: ADDED"}, models.TopicBundles},
		{"remoteconfig", []string{"flags.isEnabled: false -> true"}, models.TopicFlags},
		{"evo_lab", []string{"evolutionId[evolutionId=3]: ADDED"}, models.TopicEvolutions},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Topic(tt.target, tt.lines), "target %s", tt.target)
	}
}

func TestTopicShortWordsNeedBoundaries(t *testing.T) {
	c := NewClassifier()

	// Standalone time-window and catalog words still classify.
	assert.Equal(t, models.TopicPacks, c.Topic("promo", []string{"promo start: ADDED"}))
	assert.Equal(t, models.TopicPacks, c.Topic("promo", []string{"offer end: 2026-09-01"}))
	assert.Equal(t, models.TopicLocales, c.Topic("misc", []string{"string table: ADDED"}))

	// As substrings of longer identifiers they stay inert.
	assert.Equal(t, models.TopicOther, c.Topic("misc", []string{"restarted: 1 -> 2"}))
	assert.Equal(t, models.TopicOther, c.Topic("misc", []string{"legendary: 1 -> 2"}))
}

func TestTopicRuleOrderBreaksTies(t *testing.T) {
	c := NewClassifier()

	// "challenge" (SBC) and "pack" (Packs) both match; SBC is listed first.
	topic := c.Topic("mixed", []string{"challenge reward: pack x"})
	assert.Equal(t, models.TopicSBC, topic)
}

func TestTopicFallbackToOther(t *testing.T) {
	c := NewClassifier()
	topic := c.Topic("misc", []string{"unrelated.field: 1 -> 2"})
	assert.Equal(t, models.TopicOther, topic)
}

func TestTopicUsesOnlyLeadingLines(t *testing.T) {
	c := NewClassifier()

	lines := make([]string, 0, 12)
	for i := 0; i < 11; i++ {
		lines = append(lines, "x: 1 -> 2")
	}
	lines = append(lines, "challenge: ADDED")

	// The matching line sits past the blob cutoff.
	assert.Equal(t, models.TopicOther, c.Topic("misc", lines))
}

func TestSeverityLiveBeatsNew(t *testing.T) {
	c := NewClassifier()

	lines := []string{
		`challenges[id=11]: ADDED`,
		`flags.isEnabled: false -> true`,
	}
	assert.Equal(t, models.SeverityLive, c.Severity(lines))
}

func TestSeverityNew(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, models.SeverityNew, c.Severity([]string{`challenges[id=11]: ADDED`}))
}

func TestSeverityEdit(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, models.SeverityEdit, c.Severity([]string{`sbc.minRating: 84 -> 86`}))
}

func TestSeverityEnableFlipMustBeFalseToTrue(t *testing.T) {
	c := NewClassifier()
	// Going dark is an edit, not a launch.
	assert.Equal(t, models.SeverityEdit, c.Severity([]string{`flags.isEnabled: true -> false`}))
}
