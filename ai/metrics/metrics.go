// Package metrics provides Prometheus metrics export for the suggestion pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Source labels for suggestion results.
const (
	SourceCache     = "cache"
	SourceModel     = "model"
	SourceHeuristic = "heuristic"
)

// Exporter collects and exposes metrics for the title suggestion pipeline.
type Exporter struct {
	registry *prometheus.Registry

	suggestRequests *prometheus.CounterVec
	suggestLatency  *prometheus.HistogramVec
	modelCalls      *prometheus.CounterVec
	modelLatency    prometheus.Histogram
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// NewExporter creates an exporter with its own registry.
func NewExporter() *Exporter {
	registry := prometheus.NewRegistry()

	e := &Exporter{
		registry: registry,
		suggestRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "defterly_suggest_requests_total",
			Help: "Title suggestion requests by result source.",
		}, []string{"source"}),
		suggestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "defterly_suggest_duration_seconds",
			Help:    "Title suggestion latency by result source.",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"source"}),
		modelCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "defterly_model_calls_total",
			Help: "Remote model calls by outcome.",
		}, []string{"outcome"}),
		modelLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "defterly_model_call_duration_seconds",
			Help:    "Remote model call latency.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "defterly_suggest_cache_hits_total",
			Help: "Suggestion cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "defterly_suggest_cache_misses_total",
			Help: "Suggestion cache misses.",
		}),
	}

	registry.MustRegister(
		e.suggestRequests,
		e.suggestLatency,
		e.modelCalls,
		e.modelLatency,
		e.cacheHits,
		e.cacheMisses,
	)
	return e
}

// RecordSuggestion records one completed suggestion request.
func (e *Exporter) RecordSuggestion(source string, duration time.Duration) {
	e.suggestRequests.WithLabelValues(source).Inc()
	e.suggestLatency.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordModelCall records one remote model call.
func (e *Exporter) RecordModelCall(duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	e.modelCalls.WithLabelValues(outcome).Inc()
	e.modelLatency.Observe(duration.Seconds())
}

// RecordCacheHit records a suggestion cache hit.
func (e *Exporter) RecordCacheHit() { e.cacheHits.Inc() }

// RecordCacheMiss records a suggestion cache miss.
func (e *Exporter) RecordCacheMiss() { e.cacheMisses.Inc() }

// Handler returns the HTTP handler serving the metrics endpoint.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}
