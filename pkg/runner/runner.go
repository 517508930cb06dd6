package runner

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aretw0/gamestate"
	"github.com/aretw0/gamestate/internal/logging"
	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/aretw0/gamestate/pkg/observability"
)

// Runner owns the tick loop of a session.
// Enqueue and Snapshot are safe for concurrent use; everything else runs on
// the goroutine that called Run.
type Runner struct {
	session   *gamestate.Session
	tickRate  time.Duration
	queueSize int
	logger    *slog.Logger
	metrics   *observability.Metrics
	signals   bool
	observers []func(*domain.Snapshot)

	queue    chan domain.Event
	snapshot atomic.Pointer[domain.Snapshot]
	running  atomic.Bool
	ticks    atomic.Uint64
}

// New creates a runner for sess and routes the session's own event sink
// (used by the emit action) into the runner queue.
func New(sess *gamestate.Session, opts ...Option) *Runner {
	r := &Runner{
		session:   sess,
		tickRate:  DefaultTickRate,
		queueSize: DefaultQueueSize,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.queue = make(chan domain.Event, r.queueSize)
	sess.Attach(r)
	return r
}

// Session returns the driven session.
func (r *Runner) Session() *gamestate.Session { return r.session }

// TickRate returns the interval between ticks.
func (r *Runner) TickRate() time.Duration { return r.tickRate }

// Ticks returns how many ticks were run.
func (r *Runner) Ticks() uint64 { return r.ticks.Load() }

// Enqueue queues an event for the next tick. It never blocks.
func (r *Runner) Enqueue(e domain.Event) error {
	select {
	case r.queue <- e:
		return nil
	default:
		r.logger.Warn("event dropped", "event", e.String(), "err", ErrQueueFull)
		return ErrQueueFull
	}
}

// Pending returns the number of queued events.
func (r *Runner) Pending() int { return len(r.queue) }

// Snapshot returns the active path published after the last tick, or nil
// before the session started.
func (r *Runner) Snapshot() *domain.Snapshot {
	return r.snapshot.Load()
}

// Run starts the session and ticks it until the session is over or ctx is
// cancelled. On cancellation the tree is stopped and Run returns nil.
func (r *Runner) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer r.running.Store(false)

	if r.signals {
		sm := NewSignalManager(ctx)
		defer sm.Stop()
		ctx = sm.Context()
	}

	if err := r.session.Start(); err != nil {
		return err
	}
	r.publish()
	r.logger.Info("runner started", "root", r.session.Name(), "tick", r.tickRate)

	ticker := time.NewTicker(r.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-r.session.Done():
			r.finished()
			return nil
		case <-ctx.Done():
			r.session.Stop()
			r.publish()
			r.logger.Info("runner stopped", "root", r.session.Name(), "reason", context.Cause(ctx))
			return nil
		case <-ticker.C:
			if err := r.Step(); err != nil {
				r.logger.Error("tick failed", "err", err)
			}
			if r.session.Over() {
				r.finished()
				return nil
			}
		}
	}
}

func (r *Runner) finished() {
	r.logger.Info("runner finished", "root", r.session.Name(), "ticks", r.Ticks())
}

// Step runs a single tick: queued events first, then the tree.
// Run calls it on every tick; tests call it directly.
func (r *Runner) Step() error {
	start := time.Now()

	r.drain()
	err := r.session.Tick()
	r.ticks.Add(1)

	snap := r.publish()
	if r.metrics != nil {
		r.metrics.ObserveTick(time.Since(start))
	}
	for _, fn := range r.observers {
		fn(snap)
	}
	return err
}

// drain delivers the events queued before it was called; events queued
// while draining wait for the next tick.
func (r *Runner) drain() {
	for n := len(r.queue); n > 0; n-- {
		e := <-r.queue
		r.session.Publish(e)
	}
}

func (r *Runner) publish() *domain.Snapshot {
	snap := r.session.Snapshot()
	r.snapshot.Store(snap)
	return snap
}
