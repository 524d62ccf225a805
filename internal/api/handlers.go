package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/skybrief/wx-hub/internal/ai"
	"github.com/skybrief/wx-hub/internal/config"
	"github.com/skybrief/wx-hub/internal/observability"
	"github.com/skybrief/wx-hub/internal/report"
	"github.com/skybrief/wx-hub/internal/storage/sqlite"
	"github.com/skybrief/wx-hub/internal/weather"
	"github.com/skybrief/wx-hub/internal/websocket"
	"github.com/skybrief/wx-hub/pkg/logger"
)

// Handler contains the API handlers
type Handler struct {
	weatherService *weather.Service
	reportStorage  *sqlite.ReportStorage
	summarizer     ai.Summarizer
	config         *config.Config
	logger         *logger.Logger
	wsServer       *websocket.Server
	metrics        *observability.Metrics
}

// NewHandler creates a new API handler. The summarizer may be nil when AI
// summaries are disabled.
func NewHandler(weatherService *weather.Service, reportStorage *sqlite.ReportStorage, summarizer ai.Summarizer, config *config.Config, logger *logger.Logger, wsServer *websocket.Server, metrics *observability.Metrics) *Handler {
	return &Handler{
		weatherService: weatherService,
		reportStorage:  reportStorage,
		summarizer:     summarizer,
		config:         config,
		logger:         logger.Named("api-handler"),
		wsServer:       wsServer,
		metrics:        metrics,
	}
}

// GetMETAR returns the latest METAR for a station, parsed and decoded
func (h *Handler) GetMETAR(w http.ResponseWriter, r *http.Request) {
	station := strings.ToUpper(chi.URLParam(r, "station"))

	data := h.weatherService.FetchStation(station)
	if data == nil || data.METAR == nil {
		WriteError(w, http.StatusNotFound, "no METAR available for "+station)
		return
	}

	metar := *data.METAR
	if wantsSummary(r) && metar.Parsed != nil {
		metar.AISummary = h.summarize(r.Context(), station, "METAR", metar.RawObserved, metar.Parsed.Summary)
	}

	WriteJSON(w, http.StatusOK, &metar)
}

// GetTAF returns the latest TAF for a station, parsed and decoded
func (h *Handler) GetTAF(w http.ResponseWriter, r *http.Request) {
	station := strings.ToUpper(chi.URLParam(r, "station"))

	data := h.weatherService.FetchStation(station)
	if data == nil || data.TAF == nil {
		WriteError(w, http.StatusNotFound, "no TAF available for "+station)
		return
	}

	taf := *data.TAF
	if wantsSummary(r) && taf.Parsed != nil {
		taf.AISummary = h.summarize(r.Context(), station, "TAF", taf.RawTAF, taf.Parsed.Summary)
	}

	WriteJSON(w, http.StatusOK, &taf)
}

// GetPIREPs returns pilot reports near a station
func (h *Handler) GetPIREPs(w http.ResponseWriter, r *http.Request) {
	station := strings.ToUpper(chi.URLParam(r, "station"))

	data := h.weatherService.FetchStation(station)
	if data == nil {
		WriteError(w, http.StatusNotFound, "no weather data available for "+station)
		return
	}

	pireps := data.PIREPs
	if pireps == nil {
		pireps = []weather.PIREPEntry{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"station": station,
		"count":   len(pireps),
		"pireps":  pireps,
	})
}

// GetSIGMETs returns active SIGMET advisories
func (h *Handler) GetSIGMETs(w http.ResponseWriter, r *http.Request) {
	h.writeAdvisories(w, "SIGMET")
}

// GetAIRMETs returns active AIRMET advisories
func (h *Handler) GetAIRMETs(w http.ResponseWriter, r *http.Request) {
	h.writeAdvisories(w, "AIRMET")
}

func (h *Handler) writeAdvisories(w http.ResponseWriter, advisoryType string) {
	data := h.weatherService.GetWeatherData()

	advisories := []weather.AirSigmet{}
	if data != nil {
		for _, adv := range data.Advisories {
			if strings.EqualFold(adv.AirSigmetType, advisoryType) {
				advisories = append(advisories, adv)
			}
		}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"type":       advisoryType,
		"count":      len(advisories),
		"advisories": advisories,
	})
}

// decodeRequest is the POST /api/v1/decode body
type decodeRequest struct {
	Raw  string `json:"raw"`
	Type string `json:"type"`
}

// decodeResponse carries the token list with per-token explanations plus the
// structured form of the report.
type decodeResponse struct {
	Raw     string                  `json:"raw"`
	Type    string                  `json:"type"`
	Tokens  []report.AnnotatedToken `json:"tokens"`
	Parsed  any                     `json:"parsed"`
	Summary string                  `json:"summary"`
}

// DecodeReport tokenizes and explains a raw report supplied by the client
func (h *Handler) DecodeReport(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	raw := strings.TrimSpace(req.Raw)
	if raw == "" {
		WriteError(w, http.StatusBadRequest, "raw report text is required")
		return
	}

	kind := strings.ToLower(strings.TrimSpace(req.Type))
	if kind == "" {
		kind = "metar"
	}

	resp := decodeResponse{Raw: raw, Type: kind}
	switch kind {
	case "taf":
		parsed := report.ParseTAF(raw)
		resp.Tokens = parsed.Tokens
		resp.Parsed = parsed
		resp.Summary = parsed.Summary
	case "pirep":
		parsed := report.ParsePIREP(raw)
		resp.Tokens = parsed.Tokens
		resp.Parsed = parsed
		resp.Summary = parsed.Summary
	case "metar", "speci":
		parsed := report.ParseMETAR(raw)
		resp.Tokens = parsed.Tokens
		resp.Parsed = parsed
		resp.Summary = parsed.Summary
	default:
		WriteError(w, http.StatusBadRequest, "unsupported report type: "+req.Type)
		return
	}

	if h.metrics != nil {
		h.metrics.ReportsDecoded.WithLabelValues(resp.Type).Inc()
	}

	WriteJSON(w, http.StatusOK, &resp)
}

// GetHistory returns stored reports for a station, newest first
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.reportStorage == nil {
		WriteError(w, http.StatusServiceUnavailable, "report history is not available")
		return
	}

	station := strings.ToUpper(chi.URLParam(r, "station"))
	product := strings.ToLower(r.URL.Query().Get("product"))

	limit := h.config.Storage.MaxHistoryRows
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n < limit || limit <= 0 {
			limit = n
		}
	}

	records, err := h.reportStorage.GetHistory(station, product, limit)
	if err != nil {
		h.logger.Error("Failed to query report history",
			logger.Error(err),
			logger.String("station", station))
		WriteError(w, http.StatusInternalServerError, "failed to query report history")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"station": station,
		"count":   len(records),
		"reports": records,
	})
}

// GetWeatherData returns the cached bundle for the home station
func (h *Handler) GetWeatherData(w http.ResponseWriter, r *http.Request) {
	data := h.weatherService.GetWeatherData()
	if data == nil {
		WriteJSON(w, http.StatusOK, &weather.WeatherData{
			Station:     h.weatherService.HomeStation(),
			LastUpdated: time.Now().UTC(),
			FetchErrors: []string{"weather data not yet available"},
		})
		return
	}

	WriteJSON(w, http.StatusOK, data)
}

// GetHealth returns the health status of the API
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":       "ok",
		"station":      h.weatherService.HomeStation(),
		"weather":      h.weatherService.IsStarted(),
		"cache":        h.weatherService.GetCacheStats(),
		"ai_summaries": h.summarizer != nil,
	}

	WriteJSON(w, http.StatusOK, response)
}

// GetConfig returns the public configuration
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	// Create a sanitized config with only public values
	publicConfig := map[string]any{
		"station": map[string]any{
			"airport_code":   h.config.Station.AirportCode,
			"latitude":       h.config.Station.Latitude,
			"longitude":      h.config.Station.Longitude,
			"elevation_feet": h.config.Station.ElevationFeet,
			"declination":    h.weatherService.Declination(),
		},
		"wx": map[string]any{
			"refresh_interval_minutes": h.config.Weather.RefreshIntervalMinutes,
			"cache_expiry_minutes":     h.config.Weather.CacheExpiryMinutes,
			"pirep_distance_nm":        h.config.Weather.PIREPDistanceNM,
		},
		"ai": map[string]any{
			"enabled": h.config.AI.Enabled,
		},
	}

	WriteJSON(w, http.StatusOK, publicConfig)
}

// summarize asks the AI summarizer for a briefing and falls back to the
// locally decoded summary when the summarizer is unavailable or fails.
func (h *Handler) summarize(ctx context.Context, station, product, raw, localSummary string) string {
	if h.summarizer == nil {
		return localSummary
	}

	summary, err := h.summarizer.Summarize(ctx, ai.BriefingRequest{
		Station: station,
		Product: product,
		Raw:     raw,
		Decoded: localSummary,
	})
	if err != nil {
		h.logger.Warn("AI summary failed, falling back to local summary",
			logger.Error(err),
			logger.String("station", station),
			logger.String("product", product))
		return localSummary
	}

	return summary
}

func wantsSummary(r *http.Request) bool {
	return r.URL.Query().Get("include_summary") == "true"
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}
