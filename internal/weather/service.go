package weather

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/skybrief/wx-hub/internal/config"
	"github.com/skybrief/wx-hub/internal/observability"
	"github.com/skybrief/wx-hub/internal/report"
	"github.com/skybrief/wx-hub/pkg/logger"
)

// Broadcaster pushes updated station bundles to connected dashboard clients.
type Broadcaster interface {
	BroadcastWeatherUpdate(data *WeatherData)
}

// Recorder persists fetched reports for the history endpoint.
type Recorder interface {
	RecordReport(station, product, raw, flightCategory string, fetchedAt time.Time) error
}

// Service manages weather data fetching and caching
type Service struct {
	config      WeatherConfig
	homeStation string
	client      *Client
	cache       *Cache
	logger      *logger.Logger

	broadcaster Broadcaster
	recorder    Recorder
	metrics     *observability.Metrics

	// Home station magnetic declination, computed once at start.
	declination float64

	// Service lifecycle
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	mu      sync.RWMutex

	// Initial data readiness
	initialDataReady chan struct{}
	initialDataOnce  sync.Once
}

// NewService creates a new weather service for the configured home station
func NewService(weatherCfg config.WeatherConfig, station config.StationConfig, log *logger.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	return &Service{
		config:           weatherCfg,
		homeStation:      station.AirportCode,
		client:           NewClient(weatherCfg, log),
		cache:            NewCache(weatherCfg, log),
		logger:           log.Named("weather-service"),
		declination:      MagneticDeclination(station.Latitude, station.Longitude, float64(station.ElevationFeet), time.Now()),
		ctx:              ctx,
		cancel:           cancel,
		initialDataReady: make(chan struct{}),
	}
}

// SetBroadcaster wires the WebSocket update sink. Must be called before Start.
func (s *Service) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetRecorder wires the report history store. Must be called before Start.
func (s *Service) SetRecorder(r Recorder) {
	s.recorder = r
}

// SetMetrics wires the Prometheus metrics. Must be called before Start.
func (s *Service) SetMetrics(m *observability.Metrics) {
	s.metrics = m
}

// Start begins the weather service background operations
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info("Starting weather service",
		logger.String("station", s.homeStation),
		logger.Int("refresh_interval_minutes", s.config.RefreshIntervalMinutes),
		logger.Float64("magnetic_declination", s.declination))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.performInitialFetch()
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.backgroundRefresh()
	}()

	s.started = true
	return nil
}

// Stop gracefully shuts down the weather service
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info("Stopping weather service")
	s.cancel()
	s.wg.Wait()

	s.started = false
	s.logger.Info("Weather service stopped")
	return nil
}

// GetWeatherData returns the current cached bundle for the home station.
// Waits for initial data to be available if the service just started.
func (s *Service) GetWeatherData() *WeatherData {
	select {
	case <-s.initialDataReady:
	case <-time.After(30 * time.Second):
		s.logger.Warn("Timeout waiting for initial weather data")
		return &WeatherData{
			Station:     s.homeStation,
			LastUpdated: time.Now(),
			FetchErrors: []string{"Weather data is still being fetched, please try again in a moment"},
		}
	}

	data := s.cache.Get(s.homeStation)
	if data == nil {
		s.logger.Warn("No weather data available after initial fetch completed")
		return &WeatherData{
			Station:     s.homeStation,
			LastUpdated: time.Now(),
			FetchErrors: []string{"Weather data temporarily unavailable"},
		}
	}
	return data
}

// FetchStation returns the bundle for an arbitrary station, serving from
// cache when fresh and fetching on demand otherwise.
func (s *Service) FetchStation(station string) *WeatherData {
	if data := s.cache.Get(station); data != nil && !s.cache.IsExpired(station) {
		return data
	}
	return s.fetchAndUpdateCache(station)
}

// HomeStation returns the configured home station code.
func (s *Service) HomeStation() string {
	return s.homeStation
}

// Declination returns the home station's magnetic declination in degrees.
func (s *Service) Declination() float64 {
	return s.declination
}

// RefreshNow triggers an immediate refresh of the home station
func (s *Service) RefreshNow() {
	s.logger.Info("Manual weather refresh triggered")
	go s.fetchAndUpdateCache(s.homeStation)
}

// GetCacheStats returns cache statistics
func (s *Service) GetCacheStats() map[string]any {
	return s.cache.GetStats()
}

// IsStarted returns whether the service is currently running
func (s *Service) IsStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// performInitialFetch performs the first weather data fetch on service start
func (s *Service) performInitialFetch() {
	s.logger.Info("Performing initial weather data fetch",
		logger.String("station", s.homeStation))

	s.fetchAndUpdateCache(s.homeStation)

	s.initialDataOnce.Do(func() {
		close(s.initialDataReady)
		s.logger.Info("Initial weather data fetch completed")
	})
}

// backgroundRefresh runs the periodic weather data refresh
func (s *Service) backgroundRefresh() {
	refreshInterval := time.Duration(s.config.RefreshIntervalMinutes) * time.Minute
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	s.logger.Info("Background weather refresh started",
		logger.String("interval", refreshInterval.String()))

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info("Background weather refresh stopped")
			return
		case <-ticker.C:
			s.logger.Debug("Periodic weather refresh triggered")
			s.fetchAndUpdateCache(s.homeStation)
		}
	}
}

// fetchAndUpdateCache fetches all enabled products for a station, attaches
// parsed forms, updates the cache, and fans the bundle out to the broadcaster
// and recorder.
func (s *Service) fetchAndUpdateCache(station string) *WeatherData {
	startTime := time.Now()

	s.logger.Debug("Fetching weather data", logger.String("station", station))

	results := s.client.FetchAll(station)
	for i := range results {
		if s.metrics != nil {
			outcome := "success"
			if results[i].Err != nil {
				outcome = "error"
			}
			s.metrics.UpstreamFetches.WithLabelValues(string(results[i].Type), outcome).Inc()
		}
		s.attachParsed(&results[i], station)
	}

	data := s.cache.Update(station, results)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastWeatherUpdate(data)
	}
	s.record(data)

	s.logger.Info("Weather data fetch completed",
		logger.String("station", station),
		logger.String("duration", time.Since(startTime).String()),
		logger.Int("total_requests", len(results)))

	return data
}

// attachParsed runs successful raw reports through the tokenizer/decoder and
// attaches the structured forms to the API models.
func (s *Service) attachParsed(result *FetchResult, station string) {
	if result.Err != nil {
		return
	}

	switch result.Type {
	case WeatherTypeMETAR:
		metar, ok := result.Data.(*METARResponse)
		if !ok || metar == nil {
			return
		}
		metar.Parsed = report.ParseMETAR(metar.RawObserved)
		if station == s.homeStation {
			d := s.declination
			metar.MagneticDeclination = &d
			if trueDir, ok := windDirDegrees(metar.Wdir); ok {
				mag := TrueToMagnetic(trueDir, d)
				metar.MagneticWindDir = &mag
			}
		}

	case WeatherTypeTAF:
		taf, ok := result.Data.(*TAFResponse)
		if !ok || taf == nil {
			return
		}
		taf.Parsed = report.ParseTAF(taf.RawTAF)

	case WeatherTypePIREP:
		raws, ok := result.Data.([]string)
		if !ok {
			return
		}
		entries := make([]PIREPEntry, 0, len(raws))
		for _, raw := range raws {
			entries = append(entries, PIREPEntry{Raw: raw, Parsed: report.ParsePIREP(raw)})
		}
		result.Data = entries
	}
}

// record persists the fetched reports when a recorder is wired.
func (s *Service) record(data *WeatherData) {
	if s.recorder == nil || data == nil {
		return
	}

	if data.METAR != nil && data.METAR.RawObserved != "" {
		category := ""
		if data.METAR.Parsed != nil {
			category = data.METAR.Parsed.FlightCategory
		}
		if err := s.recorder.RecordReport(data.Station, string(WeatherTypeMETAR), data.METAR.RawObserved, category, data.LastUpdated); err != nil {
			s.logger.Warn("Failed to record METAR", logger.Error(err))
		}
	}
	if data.TAF != nil && data.TAF.RawTAF != "" {
		if err := s.recorder.RecordReport(data.Station, string(WeatherTypeTAF), data.TAF.RawTAF, "", data.LastUpdated); err != nil {
			s.logger.Warn("Failed to record TAF", logger.Error(err))
		}
	}
	for _, entry := range data.PIREPs {
		if err := s.recorder.RecordReport(data.Station, string(WeatherTypePIREP), entry.Raw, "", data.LastUpdated); err != nil {
			s.logger.Warn("Failed to record PIREP", logger.Error(err))
		}
	}
}

// windDirDegrees reads the API's mixed-type wind direction field. Variable
// winds ("VRB") have no single direction.
func windDirDegrees(v any) (int, bool) {
	switch dir := v.(type) {
	case float64:
		return int(dir), true
	case string:
		if n, err := strconv.Atoi(dir); err == nil {
			return n, true
		}
	}
	return 0, false
}
