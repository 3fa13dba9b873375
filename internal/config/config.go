// Package config defines nanobook's runtime configuration, loaded
// from a YAML file with NANOBOOK_* environment variable overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level configuration for the nanobook CLI.
type Config struct {
	Feeds   []FeedConfig  `mapstructure:"feeds"`
	Logging LoggingConfig `mapstructure:"logging"`
	TUI     TUIConfig     `mapstructure:"tui"`
}

// FeedConfig names one ITCH file to ingest at startup.
type FeedConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig controls zerolog's level and console/JSON output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TUIConfig controls the depth-of-book viewer.
type TUIConfig struct {
	Levels       int `mapstructure:"levels"`
	RefreshMilis int `mapstructure:"refresh_millis"`
}

// Load reads config from a YAML file at path, falling back to
// defaults for anything unset. NANOBOOK_* environment variables
// override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("NANOBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("tui.levels", 10)
	v.SetDefault("tui.refresh_millis", 250)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if len(c.Feeds) == 0 {
		return fmt.Errorf("at least one feed is required")
	}
	for i, f := range c.Feeds {
		if f.Path == "" {
			return fmt.Errorf("feeds[%d].path is required", i)
		}
	}
	if c.TUI.Levels <= 0 {
		return fmt.Errorf("tui.levels must be > 0")
	}
	return nil
}
