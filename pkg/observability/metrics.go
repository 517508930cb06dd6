package observability

import (
	"time"

	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gamestate"

// Metrics holds the collectors of a session.
type Metrics struct {
	Transitions      *prometheus.CounterVec
	CallbackFailures *prometheus.CounterVec
	Ticks            prometheus.Counter
	SessionsOver     prometheus.Counter
	TickDuration     prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transitions_total",
				Help:      "Total number of state transitions by kind.",
			},
			[]string{"kind"},
		),
		CallbackFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "callback_failures_total",
				Help:      "Total number of callbacks that returned an error or panicked.",
			},
			[]string{"callback"},
		),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Total number of ticks delivered to the root.",
		}),
		SessionsOver: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_completed_total",
			Help:      "Total number of sessions whose root ran out of phases.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Time spent draining events and ticking the tree.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Transitions, m.CallbackFailures, m.Ticks, m.SessionsOver, m.TickDuration)
	}
	return m
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	count := func(e *domain.StateEvent) {
		m.Transitions.WithLabelValues(string(e.Type)).Inc()
	}
	return domain.LifecycleHooks{
		OnStateEnter:     count,
		OnStateExit:      count,
		OnStateExhausted: count,
		OnStateTimeout:   count,
		OnCallbackFailed: func(e *domain.FailureEvent) {
			m.CallbackFailures.WithLabelValues(string(e.Kind)).Inc()
		},
		OnSessionOver: func(*domain.StateEvent) {
			m.SessionsOver.Inc()
		},
	}
}

// ObserveTick records one tick that took d.
func (m *Metrics) ObserveTick(d time.Duration) {
	m.Ticks.Inc()
	m.TickDuration.Observe(d.Seconds())
}
