package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "CYYZ", cfg.Station.AirportCode)
	assert.Equal(t, "https://aviationweather.gov/api/data", cfg.Weather.APIBaseURL)
	assert.True(t, cfg.Weather.FetchMETAR)
	assert.False(t, cfg.AI.Enabled)
}

func TestLoadLayersOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[station]
airport_code = "KPHX"
latitude = 33.4342
longitude = -112.0116

[wx]
refresh_interval_minutes = 5
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "KPHX", cfg.Station.AirportCode)
	assert.Equal(t, 5, cfg.Weather.RefreshIntervalMinutes)
	// Omitted sections keep their defaults.
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadWithFallbackNoFile(t *testing.T) {
	// From a directory with no config file the defaults are used.
	cfg, err := LoadWithFallback(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "CYYZ", cfg.Station.AirportCode)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"duplicate additional port", func(c *Config) { c.Server.AdditionalPorts = []int{8080} }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad storage type", func(c *Config) { c.Storage.Type = "postgres" }},
		{"bad station code", func(c *Config) { c.Station.AirportCode = "TOOLONG" }},
		{"bad latitude", func(c *Config) { c.Station.Latitude = 91 }},
		{"zero refresh interval", func(c *Config) { c.Weather.RefreshIntervalMinutes = 0 }},
		{"no products enabled", func(c *Config) {
			c.Weather.FetchMETAR = false
			c.Weather.FetchTAF = false
			c.Weather.FetchPIREPs = false
			c.Weather.FetchAdvisories = false
		}},
		{"ai enabled without key", func(c *Config) {
			c.AI.Enabled = true
			c.AI.APIKey = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.name == "ai enabled without key" {
				t.Setenv("GEMINI_API_KEY", "")
			}
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
