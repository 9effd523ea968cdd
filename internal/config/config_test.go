package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "bltracker.db", cfg.DB.Path)
	require.True(t, cfg.Browser.Headless)
	require.Equal(t, 6, cfg.Run.Concurrency)
	require.Equal(t, 20*time.Second, cfg.Browser.NavTimeout())
	require.Equal(t, 5*time.Second, cfg.Browser.ActionTimeout())
	require.Equal(t, 500*time.Millisecond, cfg.Browser.RetryDelay())
	require.Equal(t, 3, cfg.Browser.RetryAttempts)
	require.Equal(t, ":9090", cfg.Metrics.Addr)
	require.False(t, cfg.Metrics.Enabled)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_ConfigFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db:
  path: /tmp/other.db
run:
  concurrency: 2
browser:
  headless: false
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/other.db", cfg.DB.Path)
	require.Equal(t, 2, cfg.Run.Concurrency)
	require.False(t, cfg.Browser.Headless)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	base, err := Load("")
	require.NoError(t, err)

	bad := base
	bad.DB.Path = ""
	require.Error(t, bad.Validate())

	bad = base
	bad.Run.Concurrency = 0
	require.Error(t, bad.Validate())

	bad = base
	bad.Browser.NavTimeoutSec = 0
	require.Error(t, bad.Validate())

	bad = base
	bad.Metrics.Enabled = true
	bad.Metrics.Addr = ""
	require.Error(t, bad.Validate())
}
