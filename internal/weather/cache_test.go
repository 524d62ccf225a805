package weather

import (
	"errors"
	"testing"

	"github.com/skybrief/wx-hub/internal/config"
	"github.com/skybrief/wx-hub/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWeatherConfig() config.WeatherConfig {
	cfg := config.DefaultConfig()
	return cfg.Weather
}

func TestCacheGetUnknownStation(t *testing.T) {
	cache := NewCache(testWeatherConfig(), logger.NewNop())

	assert.Nil(t, cache.Get("CYYZ"))
	assert.True(t, cache.IsExpired("CYYZ"))
}

func TestCacheUpdateStoresProducts(t *testing.T) {
	cache := NewCache(testWeatherConfig(), logger.NewNop())

	metar := &METARResponse{ICAOID: "CYYZ", RawObserved: "METAR CYYZ 251900Z 27010KT 15SM FEW240 22/10 A3012"}
	taf := &TAFResponse{ICAOID: "CYYZ", RawTAF: "TAF CYYZ 251740Z 2518/2624 27012KT P6SM FEW240"}

	data := cache.Update("CYYZ", []FetchResult{
		{Type: WeatherTypeMETAR, Data: metar},
		{Type: WeatherTypeTAF, Data: taf},
	})

	require.NotNil(t, data)
	assert.Equal(t, "CYYZ", data.Station)
	assert.Equal(t, metar, data.METAR)
	assert.Equal(t, taf, data.TAF)
	assert.Empty(t, data.FetchErrors)
	assert.False(t, cache.IsExpired("CYYZ"))

	cached := cache.Get("CYYZ")
	require.NotNil(t, cached)
	assert.Equal(t, metar, cached.METAR)
}

func TestCacheUpdateKeepsPreviousOnError(t *testing.T) {
	cache := NewCache(testWeatherConfig(), logger.NewNop())

	metar := &METARResponse{ICAOID: "CYYZ", RawObserved: "CYYZ 251900Z 27010KT 15SM FEW240 22/10 A3012"}
	cache.Update("CYYZ", []FetchResult{{Type: WeatherTypeMETAR, Data: metar}})

	// A failed refresh keeps the previous METAR and records the error.
	data := cache.Update("CYYZ", []FetchResult{
		{Type: WeatherTypeMETAR, Err: errors.New("upstream timeout")},
	})

	require.NotNil(t, data)
	assert.Equal(t, metar, data.METAR)
	require.Len(t, data.FetchErrors, 1)
	assert.Contains(t, data.FetchErrors[0], "upstream timeout")
}

func TestCacheInvalidate(t *testing.T) {
	cache := NewCache(testWeatherConfig(), logger.NewNop())

	cache.Update("CYYZ", []FetchResult{
		{Type: WeatherTypeMETAR, Data: &METARResponse{ICAOID: "CYYZ", RawObserved: "CYYZ 251900Z"}},
	})
	require.NotNil(t, cache.Get("CYYZ"))

	cache.Invalidate()
	assert.Nil(t, cache.Get("CYYZ"))
}

func TestCacheStats(t *testing.T) {
	cache := NewCache(testWeatherConfig(), logger.NewNop())

	cache.Update("CYYZ", []FetchResult{
		{Type: WeatherTypeMETAR, Data: &METARResponse{ICAOID: "CYYZ", RawObserved: "CYYZ 251900Z"}},
		{Type: WeatherTypePIREP, Data: []PIREPEntry{{Raw: "CYYZ UA /OV CYYZ /TM 1845 /FL080"}}},
	})

	stats := cache.GetStats()
	assert.Equal(t, 1, stats["stations"])

	stationStats, ok := stats["CYYZ"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, stationStats["has_metar"])
	assert.Equal(t, false, stationStats["has_taf"])
	assert.Equal(t, 1, stationStats["pireps"])
}
