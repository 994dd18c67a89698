package quantum

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes engine activity to Prometheus. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	gatesApplied *prometheus.CounterVec
	applySeconds *prometheus.HistogramVec
	violations   prometheus.Counter
}

// NewMetrics creates the engine collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		gatesApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qpegrover",
			Subsystem: "engine",
			Name:      "gates_applied_total",
			Help:      "Gates applied to a state vector, by kind.",
		}, []string{"kind"}),
		applySeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "qpegrover",
			Subsystem: "engine",
			Name:      "gate_apply_seconds",
			Help:      "Wall time of a single gate application, by kind.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"kind"}),
		violations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "qpegrover",
			Subsystem: "engine",
			Name:      "invariant_violations_total",
			Help:      "Gate applications that left the norm outside tolerance.",
		}),
	}

	for _, c := range []prometheus.Collector{m.gatesApplied, m.applySeconds, m.violations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(kind Kind, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := kind.String()
	m.gatesApplied.WithLabelValues(label).Inc()
	m.applySeconds.WithLabelValues(label).Observe(elapsed.Seconds())
}

func (m *Metrics) violation() {
	if m == nil {
		return
	}
	m.violations.Inc()
}
