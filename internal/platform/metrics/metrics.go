package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-level Prometheus metrics. Module-specific metrics
// live in the module's own metrics package.
type Metrics struct {
	GroupsCreated prometheus.Counter
	OutboxPending prometheus.Gauge
}

// New creates and registers process-level metrics.
func New() *Metrics {
	return &Metrics{
		GroupsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ronda_groups_created_total",
			Help: "Total number of tanda groups created",
		}),
		OutboxPending: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ronda_outbox_pending_entries",
			Help: "Outbox entries awaiting publication",
		}),
	}
}
