package models

import "time"

// ContentKind declares how a target's payload should be parsed.
type ContentKind string

const (
	// ContentJSON payloads go through the scrubber and structural differ.
	ContentJSON ContentKind = "json"
	// ContentText payloads go through the keyword line-set differ.
	ContentText ContentKind = "text"
)

// Snapshot is an immutable capture of one target's payload at one point in
// time. Snapshots are retained oldest-first per target; the differ always
// compares the two most recent.
type Snapshot struct {
	Target     string
	CapturedAt time.Time
	Kind       ContentKind
	Raw        []byte
}

// TrackingRule is the per-target scrub configuration: a mapping key path is
// kept iff it contains at least one Include substring (or Include is empty)
// and none of the Exclude substrings. An empty rule is the identity.
type TrackingRule struct {
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// IsEmpty reports whether the rule filters nothing.
func (r TrackingRule) IsEmpty() bool {
	return len(r.Include) == 0 && len(r.Exclude) == 0
}
