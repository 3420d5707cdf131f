// Package config loads the engine settings from defaults, an optional
// YAML or TOML file and HELIACAL_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables read by Load.
const EnvPrefix = "HELIACAL"

// Config holds the engine settings.
type Config struct {
	LogLevel          string `mapstructure:"log_level"`
	Workers           int    `mapstructure:"workers"`
	MaxSynodicPeriods int    `mapstructure:"max_synodic_periods"`
	LongSearchPeriods int    `mapstructure:"long_search_periods"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		LogLevel:          "info",
		Workers:           4,
		MaxSynodicPeriods: 5,
		LongSearchPeriods: 1000000,
	}
}

// Load reads the configuration. An empty path skips the file.
func Load(path string) (Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("max_synodic_periods", defaults.MaxSynodicPeriods)
	v.SetDefault("long_search_periods", defaults.LongSearchPeriods)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	if c.MaxSynodicPeriods < 1 {
		return errors.New("max_synodic_periods must be at least 1")
	}
	if c.LongSearchPeriods < 1 {
		return errors.New("long_search_periods must be at least 1")
	}
	return nil
}
