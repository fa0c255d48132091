package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RemoteCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weathercompare_remote_calls_total",
			Help: "Total weather service API calls",
		},
		[]string{"endpoint", "status"},
	)

	RemoteLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weathercompare_remote_latency_seconds",
			Help:    "Weather service call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	BaselineCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weathercompare_baseline_cache_hits_total",
			Help: "Baseline snapshots served from the in-process cache",
		},
	)

	ChannelFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weathercompare_channel_failures_total",
			Help: "Lookup failures degraded to absent, by channel and error kind",
		},
		[]string{"channel", "kind"},
	)

	StaleResponsesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weathercompare_stale_responses_dropped_total",
			Help: "Responses discarded because a newer request on the same channel was already applied",
		},
		[]string{"channel"},
	)

	KeepAlivePings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weathercompare_keepalive_pings_total",
			Help: "Weather service health pings",
		},
		[]string{"status"},
	)
)
