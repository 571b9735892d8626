package transport

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "betya_client_requests_total",
			Help: "Total number of requests issued to the Betya API",
		},
		[]string{"route", "method", "status"},
	)
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "betya_client_request_duration_seconds",
			Help:    "Duration of Betya API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	sessionExpiries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "betya_client_session_expiries_total",
			Help: "Responses that signalled an expired session",
		},
	)
)

// InitMetrics registers the client metrics. Call once from main.
func InitMetrics() {
	prometheus.MustRegister(apiRequestsTotal)
	prometheus.MustRegister(apiRequestDuration)
	prometheus.MustRegister(sessionExpiries)
}
