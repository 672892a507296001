package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chat-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hcagent",
			Subsystem: "chat_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hcagent",
			Subsystem: "chat_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Turn counter by resolved intent (or flow name)
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hcagent",
			Subsystem: "chat_api",
			Name:      "turns_total",
			Help:      "Conversation turns processed, labelled by intent or flow",
		},
		[]string{"intent"},
	)

	// RAG degradation counter
	RagFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hcagent",
			Subsystem: "chat_api",
			Name:      "rag_fallbacks_total",
			Help:      "Retrieval pipeline degradations by stage",
		},
		[]string{"stage"},
	)

	// Completed lead counter
	LeadsCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hcagent",
			Subsystem: "chat_api",
			Name:      "leads_completed_total",
			Help:      "Qualified leads handed off to CRM/notification",
		},
	)

	// Conversation gauge
	ActiveConversations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "hcagent",
			Subsystem: "chat_api",
			Name:      "active_conversations",
			Help:      "Conversations currently held in the in-memory store",
		},
	)
)
