package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsRegistry holds all Prometheus metrics for the analysis API.
type MetricsRegistry struct {
	registry *prometheus.Registry

	AnalysisDuration *prometheus.HistogramVec
	AnalysesTotal    *prometheus.CounterVec
	SimulationsTotal *prometheus.CounterVec
	WarningsTotal    *prometheus.CounterVec
	RequestsTotal    *prometheus.CounterVec
}

// NewMetricsRegistry creates a metrics registry with all API metrics
// registered on a private Prometheus registry, so tests can create as
// many registries as they need without collisions.
func NewMetricsRegistry() *MetricsRegistry {
	m := &MetricsRegistry{
		registry: prometheus.NewRegistry(),

		AnalysisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trendpulse_analysis_duration_seconds",
				Help:    "Duration of a single trend analysis",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"result"},
		),

		AnalysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendpulse_analyses_total",
				Help: "Total analyses by resulting lifecycle stage",
			},
			[]string{"stage"},
		),

		SimulationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendpulse_simulations_total",
				Help: "Total what-if simulations by outcome direction",
			},
			[]string{"direction"},
		),

		WarningsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendpulse_early_warnings_total",
				Help: "Early warnings fired, by warning level",
			},
			[]string{"level"},
		),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendpulse_http_requests_total",
				Help: "HTTP requests by endpoint and status code",
			},
			[]string{"endpoint", "status"},
		),
	}

	m.registry.MustRegister(
		m.AnalysisDuration,
		m.AnalysesTotal,
		m.SimulationsTotal,
		m.WarningsTotal,
		m.RequestsTotal,
	)

	return m
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *MetricsRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveAnalysis records the outcome of one analysis call.
func (m *MetricsRegistry) ObserveAnalysis(stage, warningLevel string, warned bool, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.AnalysisDuration.WithLabelValues(result).Observe(elapsed.Seconds())
	if err != nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(stage).Inc()
	if warned {
		m.WarningsTotal.WithLabelValues(warningLevel).Inc()
	}
}

// ObserveSimulation records the outcome of one simulation call. A
// negative change means the scenario lowered the decline probability.
func (m *MetricsRegistry) ObserveSimulation(change float64) {
	direction := "neutral"
	switch {
	case change < 0:
		direction = "improvement"
	case change > 0:
		direction = "deterioration"
	}
	m.SimulationsTotal.WithLabelValues(direction).Inc()
}

// ObserveRequest records one HTTP request for the endpoint counter.
func (m *MetricsRegistry) ObserveRequest(endpoint string, status int) {
	m.RequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}
