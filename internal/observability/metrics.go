package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the hub.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec   // labels: route, method, code
	HTTPDuration *prometheus.HistogramVec // labels: route

	// Upstream fetch metrics.
	UpstreamFetches *prometheus.CounterVec // labels: product={metar,taf,pirep,airsigmet}, outcome={success,error}

	// Decoder metrics.
	ReportsDecoded *prometheus.CounterVec // labels: kind={metar,taf,pirep}

	ConnectedClients prometheus.Gauge
}

// NewMetrics creates and registers all hub metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wx_hub",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method, and status code.",
		}, []string{"route", "method", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wx_hub",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}, []string{"route"}),
		UpstreamFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wx_hub",
			Name:      "upstream_fetches_total",
			Help:      "AviationWeather.gov fetches by product and outcome.",
		}, []string{"product", "outcome"}),
		ReportsDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wx_hub",
			Name:      "reports_decoded_total",
			Help:      "Raw reports run through the tokenizer by kind.",
		}, []string{"kind"}),
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wx_hub",
			Name:      "connected_ws_clients",
			Help:      "Currently connected WebSocket clients.",
		}),
	}

	prometheus.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.UpstreamFetches,
		m.ReportsDecoded,
		m.ConnectedClients,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		HTTPRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wx_hub", Name: "http_requests_total"}, []string{"route", "method", "code"}),
		HTTPDuration:     prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "wx_hub", Name: "http_request_duration_seconds"}, []string{"route"}),
		UpstreamFetches:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wx_hub", Name: "upstream_fetches_total"}, []string{"product", "outcome"}),
		ReportsDecoded:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wx_hub", Name: "reports_decoded_total"}, []string{"kind"}),
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "wx_hub", Name: "connected_ws_clients"}),
	}
}
