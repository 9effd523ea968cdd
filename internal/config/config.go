// Package config loads and validates tracker configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	DB      DBConfig      `mapstructure:"db"`
	Browser BrowserConfig `mapstructure:"browser"`
	Run     RunConfig     `mapstructure:"run"`
	Sync    SyncConfig    `mapstructure:"sync"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// DBConfig controls the result database location.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// BrowserConfig governs the shared browser and the page action envelope.
type BrowserConfig struct {
	Headless         bool              `mapstructure:"headless"`
	UserAgent        string            `mapstructure:"user_agent"`
	ExtraHeaders     map[string]string `mapstructure:"extra_headers"`
	WindowWidth      int               `mapstructure:"window_width"`
	WindowHeight     int               `mapstructure:"window_height"`
	NavTimeoutSec    int               `mapstructure:"nav_timeout_seconds"`
	ActionTimeoutSec int               `mapstructure:"action_timeout_seconds"`
	RetryAttempts    int               `mapstructure:"retry_attempts"`
	RetryDelayMs     int               `mapstructure:"retry_delay_ms"`
}

// RunConfig governs batch scheduling.
type RunConfig struct {
	Concurrency int    `mapstructure:"concurrency"`
	InputPath   string `mapstructure:"input_path"`
	ExportPath  string `mapstructure:"export_path"`
}

// SyncConfig points at the remote carrier registry.
type SyncConfig struct {
	URL string `mapstructure:"url"`
}

// MetricsConfig controls the operational HTTP surface.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// Load builds a Config from disk/environment. An empty path skips the file
// and uses defaults plus BLTRACKER_* environment variables.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BLTRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.path", "bltracker.db")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.window_width", 1200)
	v.SetDefault("browser.window_height", 900)
	v.SetDefault("browser.nav_timeout_seconds", 20)
	v.SetDefault("browser.action_timeout_seconds", 5)
	v.SetDefault("browser.retry_attempts", 3)
	v.SetDefault("browser.retry_delay_ms", 500)
	v.SetDefault("run.concurrency", 6)
	v.SetDefault("run.input_path", "shipments.xlsx")
	v.SetDefault("run.export_path", "results.csv")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.level", "info")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.DB.Path == "" {
		return fmt.Errorf("db.path must be set")
	}
	if c.Run.Concurrency <= 0 {
		return fmt.Errorf("run.concurrency must be > 0")
	}
	if c.Browser.NavTimeoutSec <= 0 {
		return fmt.Errorf("browser.nav_timeout_seconds must be > 0")
	}
	if c.Browser.RetryAttempts <= 0 {
		return fmt.Errorf("browser.retry_attempts must be > 0")
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr must be set when metrics are enabled")
	}
	return nil
}

// NavTimeout converts the navigation budget into a duration.
func (c BrowserConfig) NavTimeout() time.Duration {
	return time.Duration(c.NavTimeoutSec) * time.Second
}

// ActionTimeout converts the per-action budget into a duration.
func (c BrowserConfig) ActionTimeout() time.Duration {
	return time.Duration(c.ActionTimeoutSec) * time.Second
}

// RetryDelay converts the inter-attempt delay into a duration.
func (c BrowserConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}
