package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the service. It doubles as
// the engine's MetricsCollector, so per-index-path latencies are recorded
// at the source rather than re-measured in the handler.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	buildDuration *prometheus.GaugeVec
	buildSize     prometheus.Gauge
	queryLatency  *prometheus.HistogramVec
	resultsCount  prometheus.Histogram
	queriesTotal  *prometheus.CounterVec
	mismatchTotal prometheus.Counter
}

// NewMetrics creates and registers all collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"method", "path"},
		),
		buildDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "propgo_index_build_seconds",
				Help: "Wall time of the last index build per index path.",
			},
			[]string{"index_path"},
		),
		buildSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "propgo_indexed_properties",
				Help: "Number of properties in the last index build.",
			},
		),
		queryLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "propgo_query_latency_seconds",
				Help:    "Query latency per index path.",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
			},
			[]string{"index_path"},
		),
		resultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "propgo_query_results",
				Help:    "Number of matching properties per query.",
				Buckets: []float64{0, 1, 10, 100, 1000, 10000, 100000},
			},
		),
		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propgo_queries_total",
				Help: "Total queries by outcome (ok, error).",
			},
			[]string{"outcome"},
		),
		mismatchTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "propgo_result_mismatch_total",
				Help: "Queries where the two index paths disagreed. Always zero in a correct build.",
			},
		),
	}
	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.buildDuration,
		m.buildSize,
		m.queryLatency,
		m.resultsCount,
		m.queriesTotal,
		m.mismatchTotal,
	)
	return m
}

// Handler returns the scrape endpoint for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordBuild implements propgo.MetricsCollector.
func (m *Metrics) RecordBuild(properties int, hashSet, postingList time.Duration) {
	m.buildSize.Set(float64(properties))
	m.buildDuration.WithLabelValues("hashset").Set(hashSet.Seconds())
	m.buildDuration.WithLabelValues("postinglist").Set(postingList.Seconds())
}

// RecordQuery implements propgo.MetricsCollector.
func (m *Metrics) RecordQuery(results int, hashSet, postingList time.Duration, err error) {
	if err != nil {
		m.queriesTotal.WithLabelValues("error").Inc()
		return
	}
	m.queriesTotal.WithLabelValues("ok").Inc()
	m.queryLatency.WithLabelValues("hashset").Observe(hashSet.Seconds())
	m.queryLatency.WithLabelValues("postinglist").Observe(postingList.Seconds())
	m.resultsCount.Observe(float64(results))
}

// RecordMismatch implements propgo.MetricsCollector.
func (m *Metrics) RecordMismatch() {
	m.mismatchTotal.Inc()
}

// Instrument wraps h with request counting and latency observation.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		m.httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(sw.status)).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
