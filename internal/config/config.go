package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the main application configuration structure
// containing all configuration sections
type Config struct {
	Server  ServerConfig  `toml:"server"`  // HTTP server settings
	Logging LoggingConfig `toml:"logging"` // Application logging settings
	Storage StorageConfig `toml:"storage"` // Data persistence settings
	Station StationConfig `toml:"station"` // Home station settings
	Weather WeatherConfig `toml:"wx"`      // Weather data fetching and caching settings
	AI      AIConfig      `toml:"ai"`      // AI summary generation settings
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port               int      `toml:"port"`                  // Primary HTTP port for the server
	Host               string   `toml:"host"`                  // Host address to bind to (e.g., 127.0.0.1 for localhost only, 0.0.0.0 for all interfaces)
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`  // List of origins allowed for CORS requests (use ["*"] for all origins)
	ReadTimeoutSecs    int      `toml:"read_timeout_seconds"`  // Maximum duration for reading the entire request (0 = no timeout)
	WriteTimeoutSecs   int      `toml:"write_timeout_seconds"` // Maximum duration for writing the response (0 = no timeout)
	IdleTimeoutSecs    int      `toml:"idle_timeout_seconds"`  // Maximum duration to wait for the next request when keep-alives are enabled
	AdditionalPorts    []int    `toml:"additional_ports"`      // Additional HTTP ports to listen on (useful for multiple interfaces)
	StaticFilesDir     string   `toml:"static_files_dir"`      // Directory to serve static dashboard files from (e.g., "www")
}

// LoggingConfig contains application logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`  // Log level: "debug", "info", "warn", or "error"
	Format string `toml:"format"` // Log format: "json" (structured) or "console" (human-readable)
}

// StorageConfig contains data persistence configuration
type StorageConfig struct {
	Type           string `toml:"type"`             // Storage backend type (currently only "sqlite" is supported)
	SQLiteBasePath string `toml:"sqlite_base_path"` // Base path for SQLite database files (actual filename is generated as wx-hub-YYYY-MM-DD.db)
	RetentionDays  int    `toml:"retention_days"`   // Days of report history to keep; older rows are trimmed
	MaxHistoryRows int    `toml:"max_history_rows"` // Maximum number of rows to return from a single /history query
}

// StationConfig contains the home station for the background refresh loop
type StationConfig struct {
	AirportCode   string  `toml:"airport_code"`   // ICAO code of the home airport (e.g., "CYYZ")
	Latitude      float64 `toml:"latitude"`       // Latitude of the station in decimal degrees
	Longitude     float64 `toml:"longitude"`      // Longitude of the station in decimal degrees
	ElevationFeet int     `toml:"elevation_feet"` // Elevation of the station above sea level in feet
}

// WeatherConfig contains weather data fetching and caching settings
type WeatherConfig struct {
	RefreshIntervalMinutes int    `toml:"refresh_interval_minutes"` // How often the background loop refreshes the home station
	APIBaseURL             string `toml:"api_base_url"`             // AviationWeather.gov data API base URL
	RequestTimeoutSeconds  int    `toml:"request_timeout_seconds"`  // Per-request HTTP timeout
	MaxRetries             int    `toml:"max_retries"`              // Retries per upstream request (exponential backoff)
	FetchMETAR             bool   `toml:"fetch_metar"`              // Fetch METAR observations
	FetchTAF               bool   `toml:"fetch_taf"`                // Fetch TAF forecasts
	FetchPIREPs            bool   `toml:"fetch_pireps"`             // Fetch pilot reports near the station
	FetchAdvisories        bool   `toml:"fetch_advisories"`         // Fetch SIGMET/AIRMET advisories
	PIREPDistanceNM        int    `toml:"pirep_distance_nm"`        // Search radius for PIREPs around the station
	PIREPMaxAgeHours       int    `toml:"pirep_max_age_hours"`      // Maximum age of returned PIREPs
	CacheExpiryMinutes     int    `toml:"cache_expiry_minutes"`     // How long a cached station bundle stays fresh
}

// AIConfig contains settings for AI-generated plain-language briefings
type AIConfig struct {
	Enabled     bool    `toml:"enabled"`     // Enable AI summaries (the ?include_summary=true query param)
	APIKey      string  `toml:"api_key"`     // Gemini API key; the GEMINI_API_KEY env var takes precedence
	Model       string  `toml:"model"`       // Model name (e.g., "gemini-2.0-flash")
	MaxTokens   int32   `toml:"max_tokens"`  // Response token budget
	Temperature float32 `toml:"temperature"` // Sampling temperature
	TimeoutSec  int     `toml:"timeout_sec"` // Per-request timeout in seconds
}

// DefaultConfig returns a configuration populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               8080,
			Host:               "0.0.0.0",
			CORSAllowedOrigins: []string{"*"},
			ReadTimeoutSecs:    30,
			WriteTimeoutSecs:   30,
			IdleTimeoutSecs:    60,
			StaticFilesDir:     "www",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Storage: StorageConfig{
			Type:           "sqlite",
			SQLiteBasePath: "data",
			RetentionDays:  7,
			MaxHistoryRows: 500,
		},
		Station: StationConfig{
			AirportCode: "CYYZ",
			Latitude:    43.6777,
			Longitude:   -79.6248,
		},
		Weather: WeatherConfig{
			RefreshIntervalMinutes: 10,
			APIBaseURL:             "https://aviationweather.gov/api/data",
			RequestTimeoutSeconds:  10,
			MaxRetries:             2,
			FetchMETAR:             true,
			FetchTAF:               true,
			FetchPIREPs:            true,
			FetchAdvisories:        true,
			PIREPDistanceNM:        200,
			PIREPMaxAgeHours:       3,
			CacheExpiryMinutes:     15,
		},
		AI: AIConfig{
			Enabled:     false,
			Model:       "gemini-2.0-flash",
			MaxTokens:   512,
			Temperature: 0.3,
			TimeoutSec:  20,
		},
	}
}

// Load reads and parses the config file at the given path, layered over the
// defaults so omitted keys keep sensible values.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	config := DefaultConfig()
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return config, nil
}

// LoadWithFallback attempts to load the config from the preferred path, then
// from the standard locations. If no file exists anywhere, it falls back to
// the built-in defaults rather than failing: the service is useful without a
// config file.
func LoadWithFallback(preferredPath string) (*Config, error) {
	searchPaths := []string{
		preferredPath,
		"configs/config.toml",
		"config.toml",
	}

	uniquePaths := make([]string, 0, len(searchPaths))
	seen := make(map[string]bool)
	for _, path := range searchPaths {
		if path != "" && !seen[path] {
			uniquePaths = append(uniquePaths, path)
			seen[path] = true
		}
	}

	for _, path := range uniquePaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		config, err := Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
		return config, nil
	}

	return DefaultConfig(), nil
}

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}
	for _, port := range c.Server.AdditionalPorts {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("additional server port must be between 1 and 65535, got %d", port)
		}
		if port == c.Server.Port {
			return fmt.Errorf("additional port %d duplicates the primary port", port)
		}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging level must be one of debug/info/warn/error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging format must be json or console, got %q", c.Logging.Format)
	}

	if c.Storage.Type != "sqlite" {
		return fmt.Errorf("storage type %q is not supported (only sqlite)", c.Storage.Type)
	}
	if c.Storage.RetentionDays < 0 {
		return fmt.Errorf("storage retention_days must be 0 or greater")
	}

	if err := c.ValidateStation(); err != nil {
		return err
	}
	if err := c.ValidateWeather(); err != nil {
		return err
	}
	return c.ValidateAI()
}

// ValidateStation checks the home station settings.
func (c *Config) ValidateStation() error {
	code := strings.TrimSpace(c.Station.AirportCode)
	if len(code) < 3 || len(code) > 4 {
		return fmt.Errorf("station airport_code must be a 3-4 character identifier, got %q", c.Station.AirportCode)
	}
	if c.Station.Latitude < -90 || c.Station.Latitude > 90 {
		return fmt.Errorf("station latitude out of range: %f", c.Station.Latitude)
	}
	if c.Station.Longitude < -180 || c.Station.Longitude > 180 {
		return fmt.Errorf("station longitude out of range: %f", c.Station.Longitude)
	}
	return nil
}

// ValidateWeather checks the weather fetching settings.
func (c *Config) ValidateWeather() error {
	w := c.Weather
	if w.RefreshIntervalMinutes <= 0 {
		return fmt.Errorf("wx refresh_interval_minutes must be greater than 0")
	}
	if w.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("wx request_timeout_seconds must be greater than 0")
	}
	if w.MaxRetries < 0 {
		return fmt.Errorf("wx max_retries must be 0 or greater")
	}
	if w.CacheExpiryMinutes <= 0 {
		return fmt.Errorf("wx cache_expiry_minutes must be greater than 0")
	}
	if w.APIBaseURL == "" {
		return fmt.Errorf("wx api_base_url cannot be empty")
	}
	if !w.FetchMETAR && !w.FetchTAF && !w.FetchPIREPs && !w.FetchAdvisories {
		return fmt.Errorf("at least one weather product must be enabled (fetch_metar, fetch_taf, fetch_pireps, or fetch_advisories)")
	}
	if w.FetchPIREPs && w.PIREPDistanceNM <= 0 {
		return fmt.Errorf("wx pirep_distance_nm must be greater than 0 when fetch_pireps is enabled")
	}
	return nil
}

// ValidateAI checks the AI summary settings. The API key may come from the
// environment, so an empty key with AI enabled is only rejected when the env
// var is absent too.
func (c *Config) ValidateAI() error {
	if !c.AI.Enabled {
		return nil
	}
	if c.AI.APIKey == "" && os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("ai is enabled but no api_key is configured and GEMINI_API_KEY is not set")
	}
	if c.AI.Model == "" {
		return fmt.Errorf("ai model cannot be empty")
	}
	if c.AI.TimeoutSec <= 0 {
		return fmt.Errorf("ai timeout_sec must be greater than 0")
	}
	return nil
}
