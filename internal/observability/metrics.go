package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	consoleRequestsTotal  *prometheus.CounterVec
	consoleLatencySeconds *prometheus.HistogramVec
	consoleErrorsTotal    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used for console observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		consoleRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_requests_total",
			Help: "Total number of console API requests served.",
		}, []string{"method", "route", "status"})

		consoleLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "console_latency_seconds",
			Help:    "Latency distribution for console API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		consoleErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_errors_total",
			Help: "Total number of error responses returned by console endpoints.",
		}, []string{"method", "route", "status"})

		prometheus.MustRegister(consoleRequestsTotal, consoleLatencySeconds, consoleErrorsTotal)
	})
}

// Requests exposes the counter for console requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return consoleRequestsTotal
}

// Latency exposes the latency histogram for console requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return consoleLatencySeconds
}

// Errors exposes the counter for console error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return consoleErrorsTotal
}
