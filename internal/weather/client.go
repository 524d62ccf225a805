package weather

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/skybrief/wx-hub/pkg/logger"
)

// Client handles HTTP requests to the AviationWeather.gov data API
type Client struct {
	config     WeatherConfig
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new weather API client
func NewClient(config WeatherConfig, logger *logger.Logger) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.RequestTimeoutSeconds) * time.Second,
		},
		logger: logger.Named("weather-client"),
	}
}

// FetchMETAR fetches the latest METAR for the specified station
func (c *Client) FetchMETAR(station string) (*METARResponse, error) {
	u := fmt.Sprintf("%s/metar?ids=%s&format=json", c.config.APIBaseURL, url.QueryEscape(station))

	var result []METARResponse // API returns an array, latest first
	if err := c.fetchJSONWithRetry(u, WeatherTypeMETAR, station, &result); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("no METAR data found for %s", station)
	}
	return &result[0], nil
}

// FetchTAF fetches the latest TAF for the specified station
func (c *Client) FetchTAF(station string) (*TAFResponse, error) {
	u := fmt.Sprintf("%s/taf?ids=%s&format=json", c.config.APIBaseURL, url.QueryEscape(station))

	var result []TAFResponse
	if err := c.fetchJSONWithRetry(u, WeatherTypeTAF, station, &result); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("no TAF data found for %s", station)
	}
	return &result[0], nil
}

// FetchPIREPs fetches pilot reports near the specified station. The pirep
// endpoint only serves raw text, one report per line.
func (c *Client) FetchPIREPs(station string) ([]string, error) {
	u := fmt.Sprintf("%s/pirep?id=%s&distance=%d&age=%d&format=raw",
		c.config.APIBaseURL, url.QueryEscape(station), c.config.PIREPDistanceNM, c.config.PIREPMaxAgeHours)

	body, err := c.fetchRawWithRetry(u, WeatherTypePIREP, station)
	if err != nil {
		return nil, err
	}

	var reports []string
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			reports = append(reports, line)
		}
	}
	return reports, nil
}

// FetchAdvisories fetches current SIGMET/AIRMET advisories
func (c *Client) FetchAdvisories(station string) ([]AirSigmet, error) {
	u := fmt.Sprintf("%s/airsigmet?format=json", c.config.APIBaseURL)

	var result []AirSigmet
	if err := c.fetchJSONWithRetry(u, WeatherTypeAdvisory, station, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// fetchJSONWithRetry performs an HTTP request with retry logic and
// exponential backoff, decoding the JSON response into target.
func (c *Client) fetchJSONWithRetry(url string, weatherType WeatherType, station string, target any) error {
	return c.fetchWithRetry(url, weatherType, station, func(body io.Reader) error {
		if err := json.NewDecoder(body).Decode(target); err != nil {
			return fmt.Errorf("error decoding weather data: %w", err)
		}
		return nil
	})
}

// fetchRawWithRetry performs an HTTP request with retry logic, returning the
// response body as text.
func (c *Client) fetchRawWithRetry(url string, weatherType WeatherType, station string) (string, error) {
	var body string
	err := c.fetchWithRetry(url, weatherType, station, func(r io.Reader) error {
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("error reading weather data: %w", err)
		}
		body = string(data)
		return nil
	})
	return body, err
}

func (c *Client) fetchWithRetry(url string, weatherType WeatherType, station string, decode func(io.Reader) error) error {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff between retries
			backoffDuration := time.Duration(500*(1<<uint(attempt-1))) * time.Millisecond
			c.logger.Info("Retrying weather data fetch",
				logger.String("type", string(weatherType)),
				logger.String("station", station),
				logger.Int("attempt", attempt),
				logger.String("backoff", backoffDuration.String()))
			time.Sleep(backoffDuration)
		}

		resp, err := c.httpClient.Get(url)
		if err != nil {
			lastErr = fmt.Errorf("error making request to weather API: %w", err)
			c.logger.Warn("Weather API request failed, may retry",
				logger.String("type", string(weatherType)),
				logger.String("station", station),
				logger.Error(err),
				logger.Int("attempt", attempt+1),
				logger.Int("max_attempts", c.config.MaxRetries+1))
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			c.logger.Warn("Weather API returned non-OK status, may retry",
				logger.String("type", string(weatherType)),
				logger.String("station", station),
				logger.Int("status_code", resp.StatusCode),
				logger.Int("attempt", attempt+1),
				logger.Int("max_attempts", c.config.MaxRetries+1))
			continue
		}

		err = decode(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			c.logger.Warn("Failed to decode weather data, may retry",
				logger.String("type", string(weatherType)),
				logger.String("station", station),
				logger.Error(err),
				logger.Int("attempt", attempt+1),
				logger.Int("max_attempts", c.config.MaxRetries+1))
			continue
		}

		if attempt > 0 {
			c.logger.Info("Successfully fetched weather data after retries",
				logger.String("type", string(weatherType)),
				logger.String("station", station),
				logger.Int("attempts_needed", attempt+1))
		}
		return nil
	}

	c.logger.Error("All attempts to fetch weather data failed",
		logger.String("type", string(weatherType)),
		logger.String("station", station),
		logger.Error(lastErr),
		logger.Int("max_attempts", c.config.MaxRetries+1))
	return lastErr
}

// FetchAll fetches all enabled weather products concurrently
func (c *Client) FetchAll(station string) []FetchResult {
	results := make(chan FetchResult, 4)
	var fetchCount int

	if c.config.FetchMETAR {
		fetchCount++
		go func() {
			data, err := c.FetchMETAR(station)
			results <- FetchResult{Type: WeatherTypeMETAR, Data: data, Err: err}
		}()
	}

	if c.config.FetchTAF {
		fetchCount++
		go func() {
			data, err := c.FetchTAF(station)
			results <- FetchResult{Type: WeatherTypeTAF, Data: data, Err: err}
		}()
	}

	if c.config.FetchPIREPs {
		fetchCount++
		go func() {
			data, err := c.FetchPIREPs(station)
			results <- FetchResult{Type: WeatherTypePIREP, Data: data, Err: err}
		}()
	}

	if c.config.FetchAdvisories {
		fetchCount++
		go func() {
			data, err := c.FetchAdvisories(station)
			results <- FetchResult{Type: WeatherTypeAdvisory, Data: data, Err: err}
		}()
	}

	var fetchResults []FetchResult
	for i := 0; i < fetchCount; i++ {
		fetchResults = append(fetchResults, <-results)
	}
	return fetchResults
}
