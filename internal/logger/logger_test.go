package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/futwatch/internal/config"
)

func TestNew_DefaultConfig(t *testing.T) {
	_, err := New(config.NewDefaultLogConfig())
	assert.NoError(t, err)
}

func TestNew_UnknownLevel(t *testing.T) {
	cfg := config.NewDefaultLogConfig()
	cfg.LogLevel = "verbose"

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNew_FileLogging(t *testing.T) {
	dir := t.TempDir()
	cfg := config.NewDefaultLogConfig()
	cfg.LogFile = filepath.Join(dir, "logs", "futwatch.log")

	logger, err := New(cfg)
	require.NoError(t, err)

	logger.Info().Str("target", "sbc_catalog").Msg("cycle complete")

	// The log directory must exist even before rotation kicks in.
	assert.DirExists(t, filepath.Join(dir, "logs"))
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"", "trace", "debug", "info", "warn", "error", "fatal", "panic"} {
		_, err := parseLevel(name)
		assert.NoError(t, err, "level %q", name)
	}
}
