package weather

import (
	"sync"
	"time"

	"github.com/skybrief/wx-hub/internal/config"
	"github.com/skybrief/wx-hub/internal/report"
)

// METARResponse is one observation from the AviationWeather.gov data API
// (/api/data/metar?format=json). Numeric fields are pointers because the API
// omits them when the station does not report the value; Wdir and Visib are
// untyped because the API mixes numbers and literals ("VRB", "10+").
type METARResponse struct {
	ICAOID      string       `json:"icaoId"`
	ReportTime  string       `json:"reportTime"`
	Temp        *float64     `json:"temp"`
	Dewp        *float64     `json:"dewp"`
	Wdir        any          `json:"wdir"`
	Wspd        *float64     `json:"wspd"`
	Wgst        *float64     `json:"wgst"`
	Visib       any          `json:"visib"`
	Altim       *float64     `json:"altim"`
	Name        string       `json:"name"`
	Lat         float64      `json:"lat"`
	Lon         float64      `json:"lon"`
	Clouds      []CloudLayer `json:"clouds,omitempty"`
	RawObserved string       `json:"rawOb"`

	// Locally derived fields, attached after fetch.
	Parsed              *report.METAR `json:"parsed,omitempty"`
	MagneticDeclination *float64      `json:"magnetic_declination,omitempty"`
	MagneticWindDir     *int          `json:"magnetic_wind_dir,omitempty"`
	AISummary           string        `json:"ai_summary,omitempty"`
}

// CloudLayer is the API's cloud entry (cover code + base in feet).
type CloudLayer struct {
	Cover string `json:"cover"`
	Base  *int   `json:"base"`
}

// TAFResponse is one forecast from /api/data/taf?format=json.
type TAFResponse struct {
	ICAOID        string `json:"icaoId"`
	IssueTime     string `json:"issueTime"`
	ValidTimeFrom int64  `json:"validTimeFrom"`
	ValidTimeTo   int64  `json:"validTimeTo"`
	RawTAF        string `json:"rawTAF"`

	Parsed    *report.TAF `json:"parsed,omitempty"`
	AISummary string      `json:"ai_summary,omitempty"`
}

// PIREPEntry is one pilot report; the pirep endpoint serves raw text, so the
// entry wraps a raw line plus its parsed form.
type PIREPEntry struct {
	Raw    string        `json:"raw"`
	Parsed *report.PIREP `json:"parsed,omitempty"`
}

// AirSigmet is one advisory from /api/data/airsigmet?format=json.
type AirSigmet struct {
	AirSigmetType string `json:"airSigmetType"`
	Hazard        string `json:"hazard"`
	Severity      any    `json:"severity"`
	AltitudeLow   *int   `json:"altitudeLow1"`
	AltitudeHigh  *int   `json:"altitudeHi1"`
	ValidTimeFrom int64  `json:"validTimeFrom"`
	ValidTimeTo   int64  `json:"validTimeTo"`
	RawAirSigmet  string `json:"rawAirSigmet"`
}

// WeatherData is the complete cached bundle for a station.
type WeatherData struct {
	Station     string         `json:"station"`
	METAR       *METARResponse `json:"metar,omitempty"`
	TAF         *TAFResponse   `json:"taf,omitempty"`
	PIREPs      []PIREPEntry   `json:"pireps,omitempty"`
	Advisories  []AirSigmet    `json:"advisories,omitempty"`
	LastUpdated time.Time      `json:"last_updated"`
	FetchErrors []string       `json:"fetch_errors,omitempty"`
}

// WeatherCache represents cached weather data with expiration
type WeatherCache struct {
	Data      *WeatherData
	ExpiresAt time.Time
	mu        sync.RWMutex
}

// WeatherType represents the type of weather data
type WeatherType string

const (
	WeatherTypeMETAR    WeatherType = "metar"
	WeatherTypeTAF      WeatherType = "taf"
	WeatherTypePIREP    WeatherType = "pirep"
	WeatherTypeAdvisory WeatherType = "airsigmet"
)

// FetchResult represents the result of fetching one weather product
type FetchResult struct {
	Type WeatherType
	Data any
	Err  error
}

// WeatherConfig aliases the config package's weather section; the service
// takes it by value to avoid a config import in every consumer.
type WeatherConfig = config.WeatherConfig

// IsExpired checks if the cached data has expired
func (wc *WeatherCache) IsExpired() bool {
	wc.mu.RLock()
	defer wc.mu.RUnlock()
	return time.Now().After(wc.ExpiresAt)
}

// Get returns the cached weather data (thread-safe)
func (wc *WeatherCache) Get() *WeatherData {
	wc.mu.RLock()
	defer wc.mu.RUnlock()
	return wc.Data
}

// Set updates the cached weather data (thread-safe)
func (wc *WeatherCache) Set(data *WeatherData, expiryDuration time.Duration) {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.Data = data
	wc.ExpiresAt = time.Now().Add(expiryDuration)
}

// NewWeatherCache creates a new weather cache instance
func NewWeatherCache() *WeatherCache {
	return &WeatherCache{}
}
