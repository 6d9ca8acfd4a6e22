package match

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus instruments a match server exposes. This is
// ambient observability, carried regardless of any spec non-goal, grounded
// on the teacher pack's client_golang usage style.
type Metrics struct {
	StepDuration  prometheus.Histogram
	Active        prometheus.Gauge
	ActorTimeouts prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "match_step_duration_seconds",
			Help:    "Wall-clock duration of one rules-engine step, including all actor round trips.",
			Buckets: prometheus.DefBuckets,
		}),
		Active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "match_active",
			Help: "1 while this match server is driving a game, 0 once it has reported an end.",
		}),
		ActorTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "match_actor_timeouts_total",
			Help: "Count of steps that ended in a STEP_TIMEOUT expiry.",
		}),
	}
	reg.MustRegister(m.StepDuration, m.Active, m.ActorTimeouts)
	return m
}
