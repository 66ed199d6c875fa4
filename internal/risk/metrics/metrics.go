package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the risk module.
type Metrics struct {
	Evaluations      *prometheus.CounterVec
	BlockedActions   prometheus.Counter
	SnapshotLatency  *prometheus.HistogramVec
}

// New creates and registers risk metrics.
func New() *Metrics {
	return &Metrics{
		Evaluations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ronda_risk_evaluations_total",
			Help: "Risk evaluations by operation and aggregate level",
		}, []string{"operation", "level"}),
		BlockedActions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ronda_risk_blocked_total",
			Help: "Actions rejected by a blocking risk finding",
		}),
		SnapshotLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ronda_risk_snapshot_latency_seconds",
			Help:    "Latency of snapshot fetches during risk evaluation",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"source"}),
	}
}

// ObserveSnapshotLatency records one snapshot fetch duration.
func (m *Metrics) ObserveSnapshotLatency(source string, d time.Duration) {
	m.SnapshotLatency.WithLabelValues(source).Observe(d.Seconds())
}
