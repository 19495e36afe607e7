// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_messages_processed_total",
			Help: "Total number of customer messages processed",
		},
		[]string{"intent"},
	)

	MessagesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_messages_failed_total",
			Help: "Total number of customer messages that failed",
		},
		[]string{"error_code"},
	)

	ToolInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_tool_invocations_total",
			Help: "Total number of agent tool invocations",
		},
		[]string{"tool", "status"},
	)

	AgentIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assistant_agent_iterations",
			Help:    "Number of model round trips per agent invocation",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assistant_llm_request_duration_seconds",
			Help: "Duration of LLM completions in seconds",
		},
		[]string{"provider", "model"},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_cache_hits_total",
			Help: "Total number of response cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assistant_active_requests",
			Help: "Number of requests currently being processed",
		},
	)
)
