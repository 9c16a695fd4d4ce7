package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/futwatch/internal/models"
)

func TestNewDefaultGlobalConfig(t *testing.T) {
	cfg := NewDefaultGlobalConfig()

	assert.Equal(t, DefaultPollIntervalSeconds, cfg.MonitorConfig.PollIntervalSeconds)
	assert.Equal(t, DefaultMaxEventLines, cfg.MonitorConfig.MaxEventLines)
	assert.Equal(t, DefaultFeedCapacity, cfg.MonitorConfig.FeedCapacity)
	assert.Equal(t, DefaultListenAddress, cfg.ServerConfig.ListenAddress)
	assert.Equal(t, DefaultDatabasePath, cfg.StorageConfig.DatabasePath)
	assert.Empty(t, cfg.Targets)
}

func TestLoadGlobalConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
monitor_config:
  poll_interval_seconds: 30
targets:
  - name: sbc_catalog
    url: https://example.com/sbc
    type: json
    track_keys:
      include: ["challenges"]
      exclude: ["challenges.description"]
  - name: remoteconfig
    url: https://example.com/flags
    type: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadGlobalConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.MonitorConfig.PollIntervalSeconds)
	// Unset sections keep their defaults.
	assert.Equal(t, DefaultMaxEventLines, cfg.MonitorConfig.MaxEventLines)

	require.Len(t, cfg.Targets, 2)
	assert.Equal(t, "sbc_catalog", cfg.Targets[0].Name)
	assert.Equal(t, models.ContentJSON, cfg.Targets[0].ContentKind())
	assert.Equal(t, []string{"challenges"}, cfg.Targets[0].TrackKeys.Include)
	assert.Equal(t, []string{"challenges.description"}, cfg.Targets[0].TrackKeys.Exclude)
}

func TestLoadGlobalConfig_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"targets":[{"name":"manifest","url":"https://example.com/manifest.json"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadGlobalConfig(path)
	require.NoError(t, err)

	require.Len(t, cfg.Targets, 1)
	// Untyped targets fall back to text diffing.
	assert.Equal(t, models.ContentText, cfg.Targets[0].ContentKind())
}

func TestLoadGlobalConfig_NormalizesTargetURLs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
targets:
  - name: sbc_catalog
    url: example.com/content/sbc
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadGlobalConfig(path)
	require.NoError(t, err)

	require.Len(t, cfg.Targets, 1)
	assert.Equal(t, "https://example.com/content/sbc", cfg.Targets[0].URL)
}

func TestLoadGlobalConfig_MissingFile(t *testing.T) {
	_, err := LoadGlobalConfig("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadGlobalConfig_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("targets: [unclosed"), 0644))

	_, err := LoadGlobalConfig(path)
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := NewDefaultGlobalConfig()
	valid.Targets = []TargetConfig{
		{Name: "sbc_catalog", URL: "https://example.com/sbc", Type: models.ContentJSON},
	}
	assert.NoError(t, ValidateConfig(valid))

	noTargets := NewDefaultGlobalConfig()
	assert.Error(t, ValidateConfig(noTargets))

	badURL := NewDefaultGlobalConfig()
	badURL.Targets = []TargetConfig{{Name: "x", URL: "not a url"}}
	assert.Error(t, ValidateConfig(badURL))

	dupNames := NewDefaultGlobalConfig()
	dupNames.Targets = []TargetConfig{
		{Name: "sbc", URL: "https://example.com/a"},
		{Name: "sbc", URL: "https://example.com/b"},
	}
	assert.Error(t, ValidateConfig(dupNames))

	badLevel := NewDefaultGlobalConfig()
	badLevel.Targets = valid.Targets
	badLevel.LogConfig.LogLevel = "verbose"
	assert.Error(t, ValidateConfig(badLevel))
}

func TestGetConfigPath_FlagPriority(t *testing.T) {
	dir := t.TempDir()
	flagPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(flagPath, []byte("{}"), 0644))

	assert.Equal(t, flagPath, GetConfigPath(flagPath))
	assert.Equal(t, "", GetConfigPath(filepath.Join(dir, "missing.yaml")))
}

func TestGetConfigPath_EnvFallback(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(envPath, []byte("{}"), 0644))
	t.Setenv("FUTWATCH_CONFIG_PATH", envPath)

	assert.Equal(t, envPath, GetConfigPath(""))
}
