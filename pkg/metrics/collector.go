// Package metrics exposes Prometheus collectors for the bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	botMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_messages_total",
			Help: "Total number of handled messages labeled by handler and status",
		},
		[]string{"handler", "status"},
	)
	messageDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "message_duration_seconds",
			Help:    "Duration of message handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler"},
	)
	flowStepTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_step_transitions_total",
			Help: "Total number of conversation step transitions",
		},
		[]string{"flow", "from", "to"},
	)
	flowsCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flows_completed_total",
			Help: "Total number of conversations that reached a terminal step",
		},
		[]string{"flow", "outcome"},
	)
	persistenceErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persistence_errors_total",
			Help: "Total number of storage collaborator failures by entity",
		},
		[]string{"entity"},
	)
)

// RecordMessage increments message counters and records handling duration.
func RecordMessage(handler, status string, duration time.Duration) {
	if handler == "" {
		handler = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botMessagesTotal.WithLabelValues(handler, status).Inc()
	messageDurationSeconds.WithLabelValues(handler).Observe(duration.Seconds())
}

// RecordStepTransition tracks conversation step transitions.
func RecordStepTransition(flow, from, to string) {
	if from == "" {
		from = "none"
	}
	if to == "" {
		to = "none"
	}

	flowStepTransitionsTotal.WithLabelValues(flow, from, to).Inc()
}

// RecordFlowCompleted tracks a conversation reaching a terminal step.
func RecordFlowCompleted(flow, outcome string) {
	flowsCompletedTotal.WithLabelValues(flow, outcome).Inc()
}

// RecordPersistenceError increments the storage failure counter.
func RecordPersistenceError(entity string) {
	if entity == "" {
		entity = "unknown"
	}

	persistenceErrorsTotal.WithLabelValues(entity).Inc()
}
