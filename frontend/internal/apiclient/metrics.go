package apiclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "frontend",
			Name:      "backend_requests_total",
			Help:      "Requests sent to the tasks API by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	backendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "frontend",
			Name:      "backend_request_duration_seconds",
			Help:      "Tasks API round trip duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func observe(op, status string, start time.Time) {
	backendRequestsTotal.WithLabelValues(op, status).Inc()
	backendRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
