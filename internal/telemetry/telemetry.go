// Package telemetry exposes Prometheus metrics for the analytics pipeline.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all analytics Prometheus metrics.
type Metrics struct {
	// Index metrics
	IndexQueriesTotal  *prometheus.CounterVec
	IndexQueryFailures *prometheus.CounterVec
	IndexQueryDuration *prometheus.HistogramVec

	// Override store metrics
	OverrideLookupsTotal   prometheus.Counter
	OverrideLookupFailures prometheus.Counter
	OverrideBatchSize      prometheus.Histogram

	// Pipeline metrics
	PostsNormalizedTotal prometheus.Counter
	EmptyResultsTotal    prometheus.Counter
}

// NewMetrics initializes and registers all metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		IndexQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "analytics_index_queries_total",
			Help: "Total queries issued to the document index",
		}, []string{"operation"}),
		IndexQueryFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "analytics_index_query_failures_total",
			Help: "Total failed document index queries",
		}, []string{"operation"}),
		IndexQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "analytics_index_query_duration_seconds",
			Help:    "Time to execute one document index query",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"operation"}),
		OverrideLookupsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "analytics_override_lookups_total",
			Help: "Total batched sentiment override lookups",
		}),
		OverrideLookupFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "analytics_override_lookup_failures_total",
			Help: "Total failed sentiment override lookups",
		}),
		OverrideBatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "analytics_override_batch_size",
			Help:    "Document id count per override batch lookup",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		}),
		PostsNormalizedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "analytics_posts_normalized_total",
			Help: "Total raw hits normalized into canonical posts",
		}),
		EmptyResultsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "analytics_empty_results_total",
			Help: "Total requests that resolved to a zero-state response",
		}),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
