package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Strategy labels for resolution metrics.
const (
	StrategyProof  = "proof"
	StrategyDirect = "direct"
	StrategyLabel  = "label"
)

// Metrics holds Prometheus collectors for partner resolution.
type Metrics struct {
	ResolutionsAttempted *prometheus.CounterVec
	ResolutionsSucceeded *prometheus.CounterVec
	LookupFailures       *prometheus.CounterVec
	NotificationsSent    prometheus.Counter
	ResolutionLatency    *prometheus.HistogramVec
}

// New registers and returns resolver metrics collectors.
func New() *Metrics {
	return &Metrics{
		ResolutionsAttempted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bpagent_resolutions_attempted_total",
			Help: "Total number of partner resolution attempts, labeled by strategy",
		}, []string{"strategy"}),
		ResolutionsSucceeded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bpagent_resolutions_succeeded_total",
			Help: "Total number of successful partner resolutions, labeled by strategy",
		}, []string{"strategy"}),
		LookupFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bpagent_lookup_failures_total",
			Help: "Total number of failed collaborator lookups, labeled by collaborator",
		}, []string{"collaborator"}),
		NotificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bpagent_partner_added_notifications_total",
			Help: "Total number of partner-added notifications published",
		}),
		ResolutionLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bpagent_resolution_latency_seconds",
			Help:    "Latency of resolution entry points in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"entrypoint"}),
	}
}

func (m *Metrics) IncrementAttempted(strategy string) {
	m.ResolutionsAttempted.WithLabelValues(strategy).Inc()
}

func (m *Metrics) IncrementSucceeded(strategy string) {
	m.ResolutionsSucceeded.WithLabelValues(strategy).Inc()
}

func (m *Metrics) IncrementLookupFailure(collaborator string) {
	m.LookupFailures.WithLabelValues(collaborator).Inc()
}

func (m *Metrics) IncrementNotificationsSent() {
	m.NotificationsSent.Inc()
}

// ObserveResolutionLatency records the latency of a resolution entry point.
func (m *Metrics) ObserveResolutionLatency(entrypoint string, durationSeconds float64) {
	m.ResolutionLatency.WithLabelValues(entrypoint).Observe(durationSeconds)
}
