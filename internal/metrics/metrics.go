package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CompletionCallsTotal counts completion-provider calls.
	CompletionCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "frontier",
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Total number of completion provider calls",
		},
		[]string{"operation", "provider", "status"},
	)

	// CompletionDuration observes completion-provider latency.
	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "frontier",
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "Completion provider call duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"operation", "provider"},
	)

	// SummaryLookupsTotal counts summary store lookups by outcome (hit, generated, failed).
	SummaryLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "frontier",
			Subsystem: "corpus",
			Name:      "summary_lookups_total",
			Help:      "Summary lookups by outcome",
		},
		[]string{"outcome"},
	)

	// SearchCallsTotal counts paper-search calls.
	SearchCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "frontier",
			Subsystem: "search",
			Name:      "calls_total",
			Help:      "Total number of paper search calls",
		},
		[]string{"provider", "status"},
	)

	// ChatTurnsTotal counts transcript appends by kind.
	ChatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "frontier",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Chat turns appended to transcripts by role and kind",
		},
		[]string{"role", "kind"},
	)

	// ActiveSessions tracks live sessions in the registry.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "frontier",
			Subsystem: "session",
			Name:      "active",
			Help:      "Number of live sessions",
		},
	)
)
