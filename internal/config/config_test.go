package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HELIACAL_WORKERS", "9")
	t.Setenv("HELIACAL_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5, cfg.MaxSynodicPeriods)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "heliacal.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("workers: 2\nmax_synodic_periods: 3\n"), 0o600))
	cfg, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 3, cfg.MaxSynodicPeriods)
	assert.Equal(t, "info", cfg.LogLevel)

	tomlPath := filepath.Join(dir, "heliacal.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("log_level = \"error\"\nlong_search_periods = 10\n"), 0o600))
	cfg, err = Load(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, 10, cfg.LongSearchPeriods)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heliacal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\n"), 0o600))
	t.Setenv("HELIACAL_WORKERS", "6")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Workers)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")

	t.Setenv("HELIACAL_WORKERS", "0")
	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers must be at least 1")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"no workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"no periods", func(c *Config) { c.MaxSynodicPeriods = -1 }, "max_synodic_periods"},
		{"no long periods", func(c *Config) { c.LongSearchPeriods = 0 }, "long_search_periods"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
