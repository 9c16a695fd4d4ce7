package config

// MonitorConfig controls the polling cycle and the core pipeline's bounds.
type MonitorConfig struct {
	// PollIntervalSeconds is the delay between full cycles across all targets.
	PollIntervalSeconds int `json:"poll_interval_seconds,omitempty" yaml:"poll_interval_seconds,omitempty" validate:"gte=1"`
	// MaxEventLines caps the diff-line list carried by one change event.
	MaxEventLines int `json:"max_event_lines,omitempty" yaml:"max_event_lines,omitempty" validate:"gte=1"`
	// SnapshotRetention is how many snapshots to keep per target, oldest evicted first.
	SnapshotRetention int `json:"snapshot_retention,omitempty" yaml:"snapshot_retention,omitempty" validate:"gte=2"`
	// FeedCapacity bounds the rolling in-memory event feed.
	FeedCapacity int `json:"feed_capacity,omitempty" yaml:"feed_capacity,omitempty" validate:"gte=1"`
	// FetchTimeoutSecs bounds a single target fetch.
	FetchTimeoutSecs int `json:"fetch_timeout_secs,omitempty" yaml:"fetch_timeout_secs,omitempty" validate:"gte=1"`
	// UserAgent is sent on every poll request.
	UserAgent string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
}

// NewDefaultMonitorConfig creates a MonitorConfig with default values
func NewDefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		PollIntervalSeconds: DefaultPollIntervalSeconds,
		MaxEventLines:       DefaultMaxEventLines,
		SnapshotRetention:   DefaultSnapshotRetention,
		FeedCapacity:        DefaultFeedCapacity,
		FetchTimeoutSecs:    DefaultFetchTimeoutSecs,
		UserAgent:           DefaultUserAgent,
	}
}
