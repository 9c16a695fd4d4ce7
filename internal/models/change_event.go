package models

import "time"

// EventKind distinguishes the unit of feed output.
type EventKind string

const (
	// EventBaseline is emitted the first time a target is captured.
	EventBaseline EventKind = "baseline"
	// EventChange is emitted when a diff survives noise filtering.
	EventChange EventKind = "change"
	// EventError is emitted when a target's cycle fails unexpectedly.
	EventError EventKind = "error"
)

// Topic is the coarse content category assigned to a change.
type Topic string

const (
	TopicEvolutions Topic = "Evolutions"
	TopicSBC        Topic = "SBC"
	TopicPacks      Topic = "Packs"
	TopicObjectives Topic = "Objectives"
	TopicLocales    Topic = "Locales"
	TopicBundles    Topic = "Bundles"
	TopicFlags      Topic = "Flags"
	TopicOther      Topic = "Other"
)

// Severity is the urgency tier assigned to a change.
type Severity string

const (
	// SeverityBaseline marks first-capture events.
	SeverityBaseline Severity = "Baseline"
	// SeverityNew marks diffs containing additions.
	SeverityNew Severity = "New"
	// SeverityLive marks an enable flag flipping false to true.
	SeverityLive Severity = "Live"
	// SeverityEdit marks any other surviving change.
	SeverityEdit Severity = "Edit"
	// SeverityError marks failed cycles.
	SeverityError Severity = "Error"
)

// ChangeEvent is one detection result for one target. Events are immutable
// once created; they are appended to the rolling feed and optionally
// forwarded to persistence and notification collaborators.
type ChangeEvent struct {
	Timestamp time.Time `json:"ts"`
	Target    string    `json:"target"`
	Kind      EventKind `json:"kind"`
	Topic     Topic     `json:"topic"`
	Severity  Severity  `json:"severity"`
	Headline  string    `json:"headline"`
	Lines     []string  `json:"lines"`
	Summary   string    `json:"summary,omitempty"`
}
