package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for ballot casting.
type Metrics struct {
	VotesCast  prometheus.Counter
	Rejections *prometheus.CounterVec
	CastTime   prometheus.Histogram
}

// New creates and registers all ballot metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on the given registerer. Tests pass a fresh
// registry so suites do not collide on metric names.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		VotesCast: factory.NewCounter(prometheus.CounterOpts{
			Name: "rollcall_votes_cast_total",
			Help: "Total votes successfully recorded",
		}),
		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_vote_rejections_total",
			Help: "Vote attempts rejected, by reason",
		}, []string{"reason"}),
		CastTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rollcall_vote_cast_duration_ms",
			Help:    "Latency of vote casting in milliseconds",
			Buckets: []float64{1, 2.5, 5, 10, 25, 50, 100, 250},
		}),
	}
}
