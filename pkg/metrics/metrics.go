// Package metrics defines the Prometheus collectors for the query service and
// exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for textquery.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	QueriesTotal         *prometheus.CounterVec
	QueryLatency         prometheus.Histogram
	QueryMatches         prometheus.Histogram
	QueryDepth           prometheus.Histogram
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
	IndexedLines         prometheus.Gauge
	IndexedTerms         prometheus.Gauge
}

// New creates the collectors and registers them with reg. A nil reg uses the
// process-wide default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textquery_queries_total",
				Help: "Total queries by result type (hit, zero_result, error).",
			},
			[]string{"result_type"},
		),
		QueryLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "textquery_query_latency_seconds",
				Help:    "Query evaluation latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),
		QueryMatches: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "textquery_query_matches",
				Help:    "Number of matching lines per query.",
				Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
			},
		),
		QueryDepth: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "textquery_query_depth",
				Help:    "Expression depth of evaluated queries.",
				Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 16},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "textquery_cache_hits_total",
				Help: "Total number of result cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "textquery_cache_misses_total",
				Help: "Total number of result cache misses.",
			},
		),
		IndexedLines: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "textquery_indexed_lines",
				Help: "Number of lines in the loaded line index.",
			},
		),
		IndexedTerms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "textquery_indexed_terms",
				Help: "Number of distinct words in the loaded line index.",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.QueriesTotal,
		m.QueryLatency,
		m.QueryMatches,
		m.QueryDepth,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.IndexedLines,
		m.IndexedTerms,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler for g. A nil g serves
// the process-wide default gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
