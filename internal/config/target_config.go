package config

import "github.com/aleister1102/futwatch/internal/models"

// TargetConfig describes one monitored endpoint.
type TargetConfig struct {
	// Name identifies the target in events, snapshots and the change log.
	Name string `json:"name" yaml:"name" validate:"required"`
	// URL is the endpoint polled each cycle.
	URL string `json:"url" yaml:"url" validate:"required,url"`
	// Type declares the payload kind: json or text.
	Type models.ContentKind `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,oneof=json text"`
	// TrackKeys is the scrub rule applied to json payloads before diffing.
	TrackKeys models.TrackingRule `json:"track_keys,omitempty" yaml:"track_keys,omitempty"`
}

// ContentKind returns the declared payload kind, defaulting to text the way
// untyped targets behave.
func (t TargetConfig) ContentKind() models.ContentKind {
	if t.Type == "" {
		return models.ContentText
	}
	return t.Type
}
