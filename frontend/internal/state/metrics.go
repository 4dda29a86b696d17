package state

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	savesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "frontend",
		Subsystem: "board_store",
		Name:      "saves_skipped_total",
		Help:      "Saves dropped because state and focus were unchanged",
	})

	savesRolledBack = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "frontend",
		Subsystem: "board_store",
		Name:      "saves_rolled_back_total",
		Help:      "Optimistic board updates reverted after a failed save",
	})

	staleResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "frontend",
		Subsystem: "board_store",
		Name:      "stale_responses_total",
		Help:      "Responses discarded because a newer request or list replaced them",
	}, []string{"kind"})
)
