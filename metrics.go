package heliacal

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "heliacal"

// Metrics holds the Prometheus collectors updated by an Engine.
type Metrics struct {
	// labels: method={vislim,arcus,moon_vislim,moon_arcus}, status={ok,not_found,error}
	Events *prometheus.CounterVec
	// labels: method
	SearchDuration *prometheus.HistogramVec

	VisibilityEvaluations prometheus.Counter
	LoopGuards            prometheus.Counter
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}
	return &Metrics{
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_total",
			Help:      help("Heliacal event searches by method and outcome."),
		}, []string{"method", "status"}),
		SearchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "search_duration_seconds",
			Help:      help("Wall time of a complete heliacal event search."),
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"method"}),
		VisibilityEvaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "visibility_evaluations_total",
			Help:      help("Visual limiting magnitude evaluations."),
		}),
		LoopGuards: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "loop_guard_total",
			Help:      help("Searches aborted by an iteration guard."),
		}),
	}
}

// NewMetrics creates the engine metrics and registers them with reg, or
// with the default registry when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := newMetrics(true)
	reg.MustRegister(
		m.Events,
		m.SearchDuration,
		m.VisibilityEvaluations,
		m.LoopGuards,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests
// can build as many engines as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}
