package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the nomination lifecycle.
type Metrics struct {
	Submitted prometheus.Counter
	Decisions *prometheus.CounterVec
	Rejected  *prometheus.CounterVec
}

// New creates and registers all nomination metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on the given registerer. Tests pass a fresh
// registry so suites do not collide on metric names.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Submitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "rollcall_nominations_submitted_total",
			Help: "Total nominations submitted",
		}),
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_nomination_decisions_total",
			Help: "Nomination decisions by outcome",
		}, []string{"decision"}),
		Rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_nomination_failures_total",
			Help: "Nomination submissions rejected before creation, by reason",
		}, []string{"reason"}),
	}
}
