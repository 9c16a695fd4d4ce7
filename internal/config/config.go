package config

const (
	// Monitor Defaults
	DefaultPollIntervalSeconds = 90
	DefaultMaxEventLines       = 250
	DefaultSnapshotRetention   = 20
	DefaultFeedCapacity        = 1000

	// Fetcher Defaults
	DefaultFetchTimeoutSecs = 25
	DefaultUserAgent        = "futwatch/1.1 (+gentle polling)"

	// Storage Defaults
	DefaultDataDir      = "data"
	DefaultDatabasePath = "data/futwatch.db"

	// Server Defaults
	DefaultListenAddress = ":8080"

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3
)

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	LogConfig          LogConfig          `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	MonitorConfig      MonitorConfig      `json:"monitor_config,omitempty" yaml:"monitor_config,omitempty"`
	NotificationConfig NotificationConfig `json:"notification_config,omitempty" yaml:"notification_config,omitempty"`
	ServerConfig       ServerConfig       `json:"server_config,omitempty" yaml:"server_config,omitempty"`
	StorageConfig      StorageConfig      `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
	Targets            []TargetConfig     `json:"targets,omitempty" yaml:"targets,omitempty" validate:"required,min=1,dive"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		LogConfig:          NewDefaultLogConfig(),
		MonitorConfig:      NewDefaultMonitorConfig(),
		NotificationConfig: NewDefaultNotificationConfig(),
		ServerConfig:       NewDefaultServerConfig(),
		StorageConfig:      NewDefaultStorageConfig(),
	}
}
