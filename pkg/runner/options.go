package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/aretw0/gamestate/pkg/observability"
)

// DefaultTickRate is 20 ticks per second.
const DefaultTickRate = 50 * time.Millisecond

// DefaultQueueSize is the default number of events buffered between ticks.
const DefaultQueueSize = 256

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithTickRate sets the interval between ticks.
func WithTickRate(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.tickRate = d
		}
	}
}

// WithQueueSize sets the capacity of the event queue.
func WithQueueSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.queueSize = n
		}
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMetrics records tick counts and durations.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithSignals makes Run stop on SIGINT or SIGTERM.
func WithSignals(enabled bool) Option {
	return func(r *Runner) {
		r.signals = enabled
	}
}

// WithTickObserver registers a function called on the runner goroutine with
// the snapshot taken after every tick.
func WithTickObserver(fn func(*domain.Snapshot)) Option {
	return func(r *Runner) {
		r.observers = append(r.observers, fn)
	}
}
