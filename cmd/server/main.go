package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/skybrief/wx-hub/internal/ai"
	"github.com/skybrief/wx-hub/internal/ai/gemini"
	"github.com/skybrief/wx-hub/internal/api"
	"github.com/skybrief/wx-hub/internal/config"
	"github.com/skybrief/wx-hub/internal/observability"
	"github.com/skybrief/wx-hub/internal/storage/sqlite"
	"github.com/skybrief/wx-hub/internal/weather"
	"github.com/skybrief/wx-hub/internal/websocket"
	"github.com/skybrief/wx-hub/pkg/logger"
)

var (
	// Version is injected at build time
	Version = "dev"
)

// weatherBroadcaster adapts the WebSocket server to the weather service's
// broadcast hook, tagging every update with its station so client-side
// filters can apply.
type weatherBroadcaster struct {
	wsServer *websocket.Server
}

func (b *weatherBroadcaster) BroadcastWeatherUpdate(data *weather.WeatherData) {
	b.wsServer.Broadcast(&websocket.Message{
		Type: websocket.MessageTypeWeatherUpdate,
		Data: map[string]any{
			"station": data.Station,
			"weather": data,
		},
	})
}

// snapshotHandler answers snapshot_request messages with the current home
// station bundle so new clients do not wait for the next refresh.
type snapshotHandler struct {
	weatherService *weather.Service
}

func (h *snapshotHandler) HandleMessage(client *websocket.Client, messageType string, data map[string]any) error {
	if messageType != websocket.MessageTypeSnapshotRequest {
		return nil
	}

	bundle := h.weatherService.GetWeatherData()
	client.SendMessage(&websocket.Message{
		Type: websocket.MessageTypeWeatherSnapshot,
		Data: map[string]any{
			"station": bundle.Station,
			"weather": bundle,
		},
	})
	return nil
}

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file (optional - will search in configs/ and root directory)")
	flag.Parse()

	// Load configuration with fallback logic
	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting wx-hub server",
		logger.String("version", Version),
		logger.String("station", cfg.Station.AirportCode),
		logger.String("config_path", *configPath),
	)

	// Create Prometheus metrics
	metrics := observability.NewMetrics()

	// Generate today's database filename
	today := time.Now().Format("2006-01-02")
	dbFilename := fmt.Sprintf("wx-hub-%s.db", today)
	dbPath := filepath.Join(cfg.Storage.SQLiteBasePath, dbFilename)

	// Ensure the directory exists
	if err := os.MkdirAll(cfg.Storage.SQLiteBasePath, 0755); err != nil {
		log.Error("Failed to create database directory", logger.Error(err), logger.String("path", cfg.Storage.SQLiteBasePath))
		os.Exit(1)
	}

	log.Info("Using daily database", logger.String("path", dbPath))

	reportStorage, err := sqlite.NewReportStorage(dbPath, log)
	if err != nil {
		log.Error("Failed to create SQLite storage", logger.Error(err))
		os.Exit(1)
	}
	defer reportStorage.Close()

	// Trim report history beyond the retention window
	if cfg.Storage.RetentionDays > 0 {
		if deleted, err := reportStorage.TrimOlderThan(cfg.Storage.RetentionDays); err != nil {
			log.Warn("Failed to trim report history", logger.Error(err))
		} else if deleted > 0 {
			log.Info("Trimmed report history",
				logger.Int64("rows_deleted", deleted),
				logger.Int("retention_days", cfg.Storage.RetentionDays))
		}
	}

	// Create WebSocket server
	wsServer := websocket.NewServer(log)
	wsServer.SetClientGauge(metrics.ConnectedClients)

	// Start WebSocket server
	go wsServer.Run()

	// Create AI summarizer (if enabled)
	var summarizer ai.Summarizer
	if cfg.AI.Enabled {
		apiKey := cfg.AI.APIKey
		if envKey := os.Getenv("GEMINI_API_KEY"); envKey != "" {
			apiKey = envKey
		}

		client, err := gemini.NewClient(
			context.Background(),
			apiKey,
			ai.SummaryConfig{
				Model:       cfg.AI.Model,
				Temperature: cfg.AI.Temperature,
				MaxTokens:   cfg.AI.MaxTokens,
			},
			time.Duration(cfg.AI.TimeoutSec)*time.Second,
			log,
		)
		if err != nil {
			log.Error("Failed to create AI summarizer, continuing without summaries", logger.Error(err))
		} else {
			summarizer = client
			log.Info("AI summarizer enabled", logger.String("model", cfg.AI.Model))
		}
	} else {
		log.Info("AI summaries disabled in configuration")
	}

	// Create weather service
	weatherService := weather.NewService(cfg.Weather, cfg.Station, log)
	weatherService.SetBroadcaster(&weatherBroadcaster{wsServer: wsServer})
	weatherService.SetRecorder(reportStorage)
	weatherService.SetMetrics(metrics)

	wsServer.SetMessageHandler(&snapshotHandler{weatherService: weatherService})

	// Start weather service
	if err := weatherService.Start(); err != nil {
		log.Error("Failed to start weather service", logger.Error(err))
		os.Exit(1)
	}

	// Create API router
	router := api.NewRouter(weatherService, reportStorage, summarizer, cfg, log, wsServer, metrics)

	// --- Setup for multiple HTTP servers ---
	var servers []*http.Server
	allPorts := []int{cfg.Server.Port}       // Start with the primary port
	if len(cfg.Server.AdditionalPorts) > 0 { // Only append if there are additional ports
		allPorts = append(allPorts, cfg.Server.AdditionalPorts...)
	}

	log.Info("Configured listener ports", logger.Any("ports", allPorts))

	// Start a server for each configured port
	for _, port := range allPorts {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, port)
		server := &http.Server{
			Addr:         addr,
			Handler:      router.Routes(), // All servers use the same main router
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second,
			IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSecs) * time.Second,
		}
		servers = append(servers, server)

		go func(s *http.Server) {
			log.Info("Starting HTTP server", logger.String("addr", s.Addr))
			if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("HTTP server error on startup", logger.String("addr", s.Addr), logger.Error(err))
			}
		}(server)
	}

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down server...")

	// Stop background services first
	log.Info("Stopping weather service...")
	weatherService.Stop()
	log.Info("Weather service stopped.")

	// Shutdown all HTTP servers
	log.Info("Shutting down HTTP servers...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(srv *http.Server) {
			defer wg.Done()
			log.Info("Attempting to shutdown HTTP server", logger.String("addr", srv.Addr))
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("HTTP server shutdown error", logger.String("addr", srv.Addr), logger.Error(err))
			} else {
				log.Info("HTTP server shutdown complete", logger.String("addr", srv.Addr))
			}
		}(s)
	}
	wg.Wait() // Wait for all server shutdowns to complete

	log.Info("All HTTP servers shutdown.")

	log.Info("Server fully stopped")
}
