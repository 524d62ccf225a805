package weather

import (
	"fmt"
	"sync"
	"time"

	"github.com/skybrief/wx-hub/pkg/logger"
)

// Cache manages per-station weather bundles with thread-safe operations
type Cache struct {
	stations map[string]*WeatherCache
	config   WeatherConfig
	logger   *logger.Logger
	mu       sync.RWMutex
}

// NewCache creates a new weather cache manager
func NewCache(config WeatherConfig, logger *logger.Logger) *Cache {
	return &Cache{
		stations: make(map[string]*WeatherCache),
		config:   config,
		logger:   logger.Named("weather-cache"),
	}
}

// Get returns the cached bundle for a station, or nil when nothing has been
// fetched for it yet.
func (c *Cache) Get(station string) *WeatherData {
	c.mu.RLock()
	entry, ok := c.stations[station]
	c.mu.RUnlock()
	if !ok {
		return nil
	}

	data := entry.Get()
	if data == nil {
		return nil
	}
	if data.METAR == nil && data.TAF == nil && len(data.PIREPs) == 0 &&
		len(data.Advisories) == 0 && len(data.FetchErrors) == 0 {
		return nil
	}
	return data
}

// IsExpired reports whether the station's cached bundle has expired. An
// unknown station counts as expired.
func (c *Cache) IsExpired(station string) bool {
	c.mu.RLock()
	entry, ok := c.stations[station]
	c.mu.RUnlock()
	if !ok {
		return true
	}
	return entry.IsExpired()
}

// Update merges new fetch results over the station's current bundle.
// Products that failed keep their previous value; the error is recorded in
// FetchErrors instead.
func (c *Cache) Update(station string, results []FetchResult) *WeatherData {
	c.mu.Lock()
	entry, ok := c.stations[station]
	if !ok {
		entry = NewWeatherCache()
		c.stations[station] = entry
	}
	c.mu.Unlock()

	currentData := entry.Get()
	if currentData == nil {
		currentData = &WeatherData{Station: station}
	}

	newData := &WeatherData{
		Station:     station,
		METAR:       currentData.METAR,
		TAF:         currentData.TAF,
		PIREPs:      currentData.PIREPs,
		Advisories:  currentData.Advisories,
		LastUpdated: time.Now(),
		FetchErrors: []string{},
	}

	for _, result := range results {
		if result.Err != nil {
			newData.FetchErrors = append(newData.FetchErrors,
				fmt.Sprintf("%s: %s", result.Type, result.Err.Error()))
			c.logger.Warn("Failed to fetch weather product",
				logger.String("type", string(result.Type)),
				logger.String("station", station),
				logger.Error(result.Err))
			continue
		}

		switch result.Type {
		case WeatherTypeMETAR:
			if metar, ok := result.Data.(*METARResponse); ok {
				newData.METAR = metar
			}
		case WeatherTypeTAF:
			if taf, ok := result.Data.(*TAFResponse); ok {
				newData.TAF = taf
			}
		case WeatherTypePIREP:
			if entries, ok := result.Data.([]PIREPEntry); ok {
				newData.PIREPs = entries
			}
		case WeatherTypeAdvisory:
			if advisories, ok := result.Data.([]AirSigmet); ok {
				newData.Advisories = advisories
			}
		}
	}

	expiryDuration := time.Duration(c.config.CacheExpiryMinutes) * time.Minute
	entry.Set(newData, expiryDuration)

	successCount := len(results) - len(newData.FetchErrors)
	c.logger.Info("Weather cache updated",
		logger.String("station", station),
		logger.Int("successful_fetches", successCount),
		logger.Int("failed_fetches", len(newData.FetchErrors)),
		logger.Time("expires_at", time.Now().Add(expiryDuration)))

	return newData
}

// Invalidate clears all cached bundles
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stations = make(map[string]*WeatherCache)
	c.logger.Info("Weather cache invalidated")
}

// GetStats returns cache statistics
func (c *Cache) GetStats() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := map[string]any{
		"stations": len(c.stations),
	}
	for station, entry := range c.stations {
		data := entry.Get()
		if data == nil {
			continue
		}
		stats[station] = map[string]any{
			"last_updated": data.LastUpdated,
			"is_expired":   entry.IsExpired(),
			"has_metar":    data.METAR != nil,
			"has_taf":      data.TAF != nil,
			"pireps":       len(data.PIREPs),
			"advisories":   len(data.Advisories),
			"error_count":  len(data.FetchErrors),
		}
	}
	return stats
}
