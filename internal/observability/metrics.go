// Package observability exposes Prometheus metrics for the HTTP surface
// and the generative client.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the server registers. It implements
// ai.AttemptObserver for the generative client.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	generativeAttempts  *prometheus.CounterVec
	generativeFallbacks prometheus.Counter
	analysisDuration    prometheus.Histogram
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "textserver_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "textserver_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		generativeAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "textserver_generative_attempts_total",
			Help: "Generative service attempts by model and outcome.",
		}, []string{"model", "outcome"}),
		generativeFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "textserver_generative_fallbacks_total",
			Help: "Analyses that degraded to the local fallback.",
		}),
		analysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "textserver_analysis_duration_seconds",
			Help:    "End to end analysis latency including retries.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 40, 60, 120},
		}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.generativeAttempts,
		m.generativeFallbacks,
		m.analysisDuration,
	)
	return m
}

// ObserveAttempt implements ai.AttemptObserver.
func (m *Metrics) ObserveAttempt(model, outcome string) {
	m.generativeAttempts.WithLabelValues(model, outcome).Inc()
}

// ObserveFallback implements ai.AttemptObserver.
func (m *Metrics) ObserveFallback() {
	m.generativeFallbacks.Inc()
}

// ObserveAnalysis records one full analysis duration.
func (m *Metrics) ObserveAnalysis(d time.Duration) {
	m.analysisDuration.Observe(d.Seconds())
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route. The route
// label uses the gin template path so cardinality stays bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
