package state

import (
	"log/slog"

	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/aretw0/gamestate/pkg/ports"
)

// DefaultRootName is the name of a root created without WithName.
const DefaultRootName = "root"

// Option configures a Root.
type Option func(*rootConfig)

type rootConfig struct {
	name string
	b    *binding
}

// WithName sets the root name used as the first path segment.
func WithName(name string) Option {
	return func(c *rootConfig) {
		c.name = name
	}
}

// WithLogger sets the structured logger used by every node of the tree.
func WithLogger(logger *slog.Logger) Option {
	return func(c *rootConfig) {
		if logger != nil {
			c.b.logger = logger
		}
	}
}

// WithClock sets the time source used by timers.
func WithClock(clock ports.Clock) Option {
	return func(c *rootConfig) {
		if clock != nil {
			c.b.clock = clock
		}
	}
}

// WithEventBus binds the tree to the host's event bus.
func WithEventBus(bus ports.EventBus) Option {
	return func(c *rootConfig) {
		c.b.bus = bus
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *rootConfig) {
		c.b.hooks = hooks
	}
}

// Root is the top-level node bound to the host's tick source.
// When it runs out of children it tells its owner the session is over.
type Root struct {
	*Node
	owner   ports.SessionOwner
	started bool
	stopped bool
}

// NewRoot creates a root owned by owner. owner may be nil.
func NewRoot(owner ports.SessionOwner, opts ...Option) *Root {
	cfg := &rootConfig{name: DefaultRootName, b: newBinding()}
	for _, opt := range opts {
		opt(cfg)
	}

	n := New(nil)
	n.name = cfg.name
	n.binding = cfg.b
	cfg.b.root = n

	r := &Root{Node: n, owner: owner}
	n.OnExhausted(r.sessionOver)
	return r
}

// Start initializes and enters the root, activating its first child.
// Calling Start again is a no-op.
func (r *Root) Start() error {
	if r.started {
		return nil
	}
	r.started = true
	r.init()
	return r.enter()
}

// Stop exits the whole tree and releases every subscription. It is the
// host's termination signal; a stopped root cannot be restarted.
func (r *Root) Stop() {
	if !r.started || r.stopped {
		return
	}
	r.stopped = true
	r.exit()
	r.destroy()
}

// Started reports whether Start was called.
func (r *Root) Started() bool { return r.started }

// Stopped reports whether Stop was called.
func (r *Root) Stopped() bool { return r.stopped }

// Subscriptions returns how many nodes hold a bus subscription for key.
func (r *Root) Subscriptions(key domain.EventKey) int {
	return r.binding.subscribed(key)
}

func (r *Root) sessionOver() error {
	r.Logger().Info("session over", "root", r.Path())
	r.emit(domain.EventSessionOver)
	if r.owner != nil {
		r.owner.SessionOver()
	}
	return nil
}
