package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/skybrief/wx-hub/internal/ai"
	"github.com/skybrief/wx-hub/internal/config"
	"github.com/skybrief/wx-hub/internal/observability"
	"github.com/skybrief/wx-hub/internal/storage/sqlite"
	"github.com/skybrief/wx-hub/internal/weather"
	"github.com/skybrief/wx-hub/internal/websocket"
	"github.com/skybrief/wx-hub/pkg/logger"
)

// Router wires the API handlers into a chi mux
type Router struct {
	handler *Handler
	config  *config.Config
	logger  *logger.Logger
	metrics *observability.Metrics
}

// NewRouter creates the API router
func NewRouter(weatherService *weather.Service, reportStorage *sqlite.ReportStorage, summarizer ai.Summarizer, cfg *config.Config, log *logger.Logger, wsServer *websocket.Server, metrics *observability.Metrics) *Router {
	return &Router{
		handler: NewHandler(weatherService, reportStorage, summarizer, cfg, log, wsServer, metrics),
		config:  cfg,
		logger:  log.Named("api-router"),
		metrics: metrics,
	}
}

// Routes builds the route tree served by every listener
func (rt *Router) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(rt.corsMiddleware)
	r.Use(rt.metricsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/metar/{station}", rt.handler.GetMETAR)
		r.Get("/taf/{station}", rt.handler.GetTAF)
		r.Get("/pirep/{station}", rt.handler.GetPIREPs)
		r.Get("/sigmet", rt.handler.GetSIGMETs)
		r.Get("/airmet", rt.handler.GetAIRMETs)
		r.Post("/decode", rt.handler.DecodeReport)
		r.Get("/history/{station}", rt.handler.GetHistory)
		r.Get("/weather", rt.handler.GetWeatherData)
		r.Get("/config", rt.handler.GetConfig)
	})

	r.Get("/healthz", rt.handler.GetHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", rt.handler.wsServer.HandleConnection)

	// Static dashboard files at the root, everything else falls through to it
	staticHandler := NewStaticFileHandler(rt.config.Server.StaticFilesDir, rt.logger)
	r.Handle("/*", staticHandler)

	return r
}

// corsMiddleware applies the configured allowed origins
func (rt *Router) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && rt.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rt *Router) originAllowed(origin string) bool {
	for _, allowed := range rt.config.Server.CORSAllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// metricsMiddleware records request counts and durations per route pattern
func (rt *Router) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rt.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}

		rt.metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		rt.metrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
