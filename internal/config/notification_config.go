package config

// NotificationConfig controls the Discord webhook collaborator. An empty
// webhook URL disables outbound notifications entirely.
type NotificationConfig struct {
	DiscordWebhookURL string `json:"discord_webhook_url,omitempty" yaml:"discord_webhook_url,omitempty" validate:"omitempty,url"`
	// MentionRoleID is mentioned on Live-severity events. Accepts a role ID,
	// "@everyone" or "@here".
	MentionRoleID string `json:"mention_role_id,omitempty" yaml:"mention_role_id,omitempty"`
	// NotifyOnBaseline forwards baseline events as well as changes.
	NotifyOnBaseline bool `json:"notify_on_baseline,omitempty" yaml:"notify_on_baseline,omitempty"`
}

// NewDefaultNotificationConfig creates a NotificationConfig with default values
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{}
}
