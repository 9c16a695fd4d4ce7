package monitor

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/futwatch/internal/config"
	"github.com/aleister1102/futwatch/internal/models"
)

func newTestProcessor() *Processor {
	return NewProcessor(config.NewDefaultMonitorConfig(), zerolog.Nop())
}

func jsonSnapshot(target, raw string) models.Snapshot {
	return models.Snapshot{
		Target:     target,
		CapturedAt: time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC),
		Kind:       models.ContentJSON,
		Raw:        []byte(raw),
	}
}

func TestProcess_Baseline(t *testing.T) {
	p := newTestProcessor()
	target := config.TargetConfig{Name: "sbc_catalog", Type: models.ContentJSON}

	event, produced, err := p.Process(target, nil, jsonSnapshot("sbc_catalog", `{"challenges":[]}`))
	require.NoError(t, err)
	require.True(t, produced)

	assert.Equal(t, models.EventBaseline, event.Kind)
	assert.Equal(t, models.SeverityBaseline, event.Severity)
	assert.Equal(t, models.TopicSBC, event.Topic)
	assert.Contains(t, event.Headline, "baseline captured")
	assert.Empty(t, event.Lines)
}

func TestProcess_EnableFlipIsLive(t *testing.T) {
	p := newTestProcessor()
	target := config.TargetConfig{Name: "remoteconfig", Type: models.ContentJSON}

	prev := jsonSnapshot("remoteconfig", `{"flags":{"isEnabled":false}}`)
	curr := jsonSnapshot("remoteconfig", `{"flags":{"isEnabled":true}}`)

	event, produced, err := p.Process(target, &prev, curr)
	require.NoError(t, err)
	require.True(t, produced)

	assert.Equal(t, models.EventChange, event.Kind)
	assert.Equal(t, models.TopicFlags, event.Topic)
	assert.Equal(t, models.SeverityLive, event.Severity)
	assert.Contains(t, event.Lines, "flags.isEnabled: false -> true")
}

func TestProcess_AddedChallengeIsNew(t *testing.T) {
	p := newTestProcessor()
	target := config.TargetConfig{Name: "sbc_catalog", Type: models.ContentJSON}

	prev := jsonSnapshot("sbc_catalog", `{"challenges":[{"id":1,"name":"Marquee Matchups"}]}`)
	curr := jsonSnapshot("sbc_catalog", `{"challenges":[{"id":1,"name":"Marquee Matchups"},{"id":2,"name":"Icon Upgrade"}]}`)

	event, produced, err := p.Process(target, &prev, curr)
	require.NoError(t, err)
	require.True(t, produced)

	assert.Equal(t, models.TopicSBC, event.Topic)
	assert.Equal(t, models.SeverityNew, event.Severity)
	assert.Contains(t, event.Headline, "challenges[id=2]")
	assert.NotEmpty(t, event.Summary)
}

func TestProcess_NoiseOnlyDiffProducesNothing(t *testing.T) {
	p := newTestProcessor()
	target := config.TargetConfig{Name: "sbc_catalog", Type: models.ContentJSON}

	prev := jsonSnapshot("sbc_catalog", `{"lastUpdated":"2026-08-22","challenges":[]}`)
	curr := jsonSnapshot("sbc_catalog", `{"lastUpdated":"2026-08-23","challenges":[]}`)

	_, produced, err := p.Process(target, &prev, curr)
	require.NoError(t, err)
	assert.False(t, produced)
}

func TestProcess_IdenticalSnapshotsProduceNothing(t *testing.T) {
	p := newTestProcessor()
	target := config.TargetConfig{Name: "packs", Type: models.ContentJSON}

	prev := jsonSnapshot("packs", `{"packs":[{"packId":1,"price":100}]}`)
	curr := jsonSnapshot("packs", `{"packs":[{"packId":1,"price":100}]}`)

	_, produced, err := p.Process(target, &prev, curr)
	require.NoError(t, err)
	assert.False(t, produced)
}

func TestProcess_ScrubExcludesBeforeDiff(t *testing.T) {
	p := newTestProcessor()
	target := config.TargetConfig{
		Name:      "sbc_catalog",
		Type:      models.ContentJSON,
		TrackKeys: models.TrackingRule{Exclude: []string{"debug"}},
	}

	prev := jsonSnapshot("sbc_catalog", `{"challenges":[],"debug":{"trace":1}}`)
	curr := jsonSnapshot("sbc_catalog", `{"challenges":[],"debug":{"trace":2}}`)

	_, produced, err := p.Process(target, &prev, curr)
	require.NoError(t, err)
	assert.False(t, produced)
}

func TestProcess_MalformedJSONFails(t *testing.T) {
	p := newTestProcessor()
	target := config.TargetConfig{Name: "sbc_catalog", Type: models.ContentJSON}

	prev := jsonSnapshot("sbc_catalog", `{}`)
	curr := jsonSnapshot("sbc_catalog", `{"challenges":`)

	_, produced, err := p.Process(target, &prev, curr)
	assert.ErrorIs(t, err, ErrMalformedPayload)
	assert.False(t, produced)

	// A malformed previous side is the same condition.
	_, produced, err = p.Process(target, &curr, prev)
	assert.ErrorIs(t, err, ErrMalformedPayload)
	assert.False(t, produced)
}

func TestProcess_TextAdditions(t *testing.T) {
	p := newTestProcessor()
	target := config.TargetConfig{Name: "service-worker", Type: models.ContentText}

	prev := models.Snapshot{
		Target: "service-worker", Kind: models.ContentText,
		CapturedAt: time.Now().UTC(),
		Raw:        []byte("const manifest = [];\nother();\n"),
	}
	curr := models.Snapshot{
		Target: "service-worker", Kind: models.ContentText,
		CapturedAt: time.Now().UTC(),
		Raw:        []byte("const manifest = [];\nnew Evolution module loaded\nother();\n"),
	}

	event, produced, err := p.Process(target, &prev, curr)
	require.NoError(t, err)
	require.True(t, produced)
	assert.Contains(t, event.Lines, "new Evolution module loaded")
}

func TestProcess_LineCap(t *testing.T) {
	cfg := config.NewDefaultMonitorConfig()
	cfg.MaxEventLines = 5
	p := NewProcessor(cfg, zerolog.Nop())
	target := config.TargetConfig{Name: "packs", Type: models.ContentJSON}

	prevObj := "{"
	currObj := "{"
	for i := 0; i < 20; i++ {
		if i > 0 {
			prevObj += ","
			currObj += ","
		}
		prevObj += fmt.Sprintf(`"price%d": %d`, i, i)
		currObj += fmt.Sprintf(`"price%d": %d`, i, i+1)
	}
	prevObj += "}"
	currObj += "}"

	event, produced, err := p.Process(target, ptr(jsonSnapshot("packs", prevObj)), jsonSnapshot("packs", currObj))
	require.NoError(t, err)
	require.True(t, produced)
	assert.Len(t, event.Lines, 5)
}

func ptr(s models.Snapshot) *models.Snapshot { return &s }
