package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "frontend",
		Subsystem: "sessions",
		Name:      "active",
		Help:      "Number of sessions with a board store in memory",
	})

	sessionsEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "frontend",
		Subsystem: "sessions",
		Name:      "evicted_total",
		Help:      "Sessions evicted after being idle",
	})
)
