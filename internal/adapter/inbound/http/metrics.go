// Package http provides the HTTP transport adapter for the gateway.
package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for listgate.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	HooksTotal      *prometheus.CounterVec
	HookDuration    *prometheus.HistogramVec
	SyncTotal       *prometheus.CounterVec
	// FeedSubscribers is registered, but the admin feed endpoint does not
	// update it, so it stays at 0.
	FeedSubscribers prometheus.Gauge
	BlockedIPHits   prometheus.Counter
}

// NewMetrics creates and registers all metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "listgate",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "listgate",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HooksTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "listgate",
				Name:      "hooks_total",
				Help:      "Total mta-hook evaluations by stage and outcome",
			},
			[]string{"stage", "outcome"},
		),
		HookDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "listgate",
				Name:      "hook_duration_seconds",
				Help:      "mta-hook evaluation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		SyncTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "listgate",
				Name:      "user_sync_total",
				Help:      "Total user-sync requests by action and result",
			},
			[]string{"action", "result"},
		),
		FeedSubscribers: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Namespace: "listgate",
				Name:      "feed_subscribers",
				Help:      "Number of currently connected admin feed subscribers",
			},
		),
		BlockedIPHits: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "listgate",
				Name:      "blocked_ip_hits_total",
				Help:      "Total hooks rejected due to a blocked IP",
			},
		),
	}
}
