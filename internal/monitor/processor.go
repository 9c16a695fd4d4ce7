package monitor

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aleister1102/futwatch/internal/classifier"
	"github.com/aleister1102/futwatch/internal/config"
	"github.com/aleister1102/futwatch/internal/differ"
	"github.com/aleister1102/futwatch/internal/generator"
	"github.com/aleister1102/futwatch/internal/jsontree"
	"github.com/aleister1102/futwatch/internal/models"
	"github.com/aleister1102/futwatch/internal/scrubber"
)

// ErrMalformedPayload marks a snapshot that could not be parsed. There is
// nothing to compare without both sides, so the cycle is skipped without an
// event; the next parseable snapshot diffs against whatever was stored.
var ErrMalformedPayload = errors.New("payload is not parseable")

// Processor turns a pair of snapshots into at most one change event. It holds
// no I/O; fetching and persistence live in Service.
type Processor struct {
	structural    *differ.StructuralDiffer
	lineset       *differ.LineSetDiffer
	noise         *differ.NoiseFilter
	classifier    *classifier.Classifier
	headlines     *generator.HeadlineGenerator
	posts         *generator.PostGenerator
	maxEventLines int
	logger        zerolog.Logger
}

// NewProcessor creates a processor with the default diff and classification rules.
func NewProcessor(cfg config.MonitorConfig, logger zerolog.Logger) *Processor {
	return &Processor{
		structural:    differ.NewStructuralDiffer(differ.DefaultDiffConfig()),
		lineset:       differ.NewLineSetDiffer(),
		noise:         differ.NewNoiseFilter(),
		classifier:    classifier.NewClassifier(),
		headlines:     generator.NewHeadlineGenerator(),
		posts:         generator.NewPostGenerator(),
		maxEventLines: cfg.MaxEventLines,
		logger:        logger.With().Str("module", "Processor").Logger(),
	}
}

// Process compares curr against prev. A nil prev yields a baseline event.
// A diff fully swallowed by the noise filter yields no event at all.
func (p *Processor) Process(target config.TargetConfig, prev *models.Snapshot, curr models.Snapshot) (models.ChangeEvent, bool, error) {
	if prev == nil {
		return p.baselineEvent(target, curr), true, nil
	}

	var lines []string
	var err error
	if curr.Kind == models.ContentJSON {
		lines, err = p.diffJSON(target, *prev, curr)
	} else {
		lines = p.diffText(*prev, curr)
	}
	if err != nil {
		return models.ChangeEvent{}, false, err
	}

	lines = p.noise.Filter(lines)
	if len(lines) == 0 {
		return models.ChangeEvent{}, false, nil
	}
	if len(lines) > p.maxEventLines {
		lines = lines[:p.maxEventLines]
	}

	topic := p.classifier.Topic(target.Name, lines)
	severity := p.classifier.Severity(lines)

	return models.ChangeEvent{
		Timestamp: curr.CapturedAt,
		Target:    target.Name,
		Kind:      models.EventChange,
		Topic:     topic,
		Severity:  severity,
		Headline:  p.headlines.MakeHeadline(topic, lines),
		Lines:     lines,
		Summary:   p.posts.PostFor(topic, lines),
	}, true, nil
}

// baselineEvent marks the first capture of a target
func (p *Processor) baselineEvent(target config.TargetConfig, curr models.Snapshot) models.ChangeEvent {
	topic := p.classifier.Topic(target.Name, nil)
	return models.ChangeEvent{
		Timestamp: curr.CapturedAt,
		Target:    target.Name,
		Kind:      models.EventBaseline,
		Topic:     topic,
		Severity:  models.SeverityBaseline,
		Headline:  fmt.Sprintf("%s: baseline captured (%d bytes)", topic, len(curr.Raw)),
		Lines:     []string{},
	}
}

// diffJSON parses, scrubs and structurally diffs two JSON snapshots
func (p *Processor) diffJSON(target config.TargetConfig, prev, curr models.Snapshot) ([]string, error) {
	currValue, err := jsontree.Decode(curr.Raw)
	if err != nil {
		return nil, fmt.Errorf("%w: current snapshot of '%s': %v", ErrMalformedPayload, target.Name, err)
	}
	prevValue, err := jsontree.Decode(prev.Raw)
	if err != nil {
		return nil, fmt.Errorf("%w: previous snapshot of '%s': %v", ErrMalformedPayload, target.Name, err)
	}

	prevValue = scrubber.Scrub(prevValue, target.TrackKeys)
	currValue = scrubber.Scrub(currValue, target.TrackKeys)

	entries := p.structural.Diff(prevValue, currValue)
	return models.Lines(entries), nil
}

// diffText reports interesting lines added since the previous snapshot
func (p *Processor) diffText(prev, curr models.Snapshot) []string {
	prevLines := p.lineset.ExtractLines(prev.Raw)
	currLines := p.lineset.ExtractLines(curr.Raw)
	return p.lineset.Diff(prevLines, currLines)
}
