// Package metrics provides Prometheus metrics for the medicines API.
// HTTP metrics:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// Data metrics:
//   - medicines_loaded: Gauge with the size of the published snapshot
//   - medicines_reload_total: Counter of reload attempts by result
//   - medicines_search_total: Counter of searches by mode
//
// All metrics are registered with the Prometheus default registry
// during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Reload results
const (
	ReloadSuccess = "success"
	ReloadFailure = "failure"
	ReloadSkipped = "skipped"
)

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen in last ~5 minutes)",
		},
	)

	MedicinesLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "medicines_loaded",
			Help: "Number of medicines in the published snapshot",
		},
	)

	MedicinesReloadTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medicines_reload_total",
			Help: "Medicines reload attempts by result",
		},
		[]string{"result"},
	)

	MedicinesReloadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "medicines_reload_duration_seconds",
			Help:    "Time spent parsing and publishing a medicines snapshot",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	MedicinesSearchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medicines_search_total",
			Help: "Medicine searches by capping mode",
		},
		[]string{"mode"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(MedicinesLoaded)
	prometheus.MustRegister(MedicinesReloadTotal)
	prometheus.MustRegister(MedicinesReloadDuration)
	prometheus.MustRegister(MedicinesSearchTotal)
}
