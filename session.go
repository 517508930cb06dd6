package gamestate

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/gamestate/internal/logging"
	"github.com/aretw0/gamestate/pkg/adapters/memory"
	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/aretw0/gamestate/pkg/dsl"
	"github.com/aretw0/gamestate/pkg/ports"
	"github.com/aretw0/gamestate/pkg/registry"
	"github.com/aretw0/gamestate/pkg/state"
)

// ErrNoTree is returned by New when neither a definition nor a setup function
// was given.
var ErrNoTree = errors.New("session has no definition or setup")

// SetupFunc builds the tree of a session in Go.
type SetupFunc func(root *state.Root) error

// Session is the high-level entry point of the library. It owns the root of
// a state tree and the collaborators the tree is bound to.
//
// Start, Stop, Tick, Dispatch, Publish and Snapshot must be called from a
// single goroutine (see pkg/runner). Enqueue, Done and Over are safe anywhere.
type Session struct {
	name      string
	root      *state.Root
	def       *dsl.Definition
	defPath   string
	registry  *registry.Registry
	setup     SetupFunc
	logger    *slog.Logger
	clock     ports.Clock
	bus       ports.Publisher
	hooks     domain.LifecycleHooks
	announcer registry.Announcer

	mu      sync.Mutex
	sink    ports.EventSink
	pending []domain.Event

	done     chan struct{}
	doneOnce sync.Once
}

// Option defines a functional option for configuring the Session.
type Option func(*Session)

// WithName sets the root name. A definition's name is used otherwise.
func WithName(name string) Option {
	return func(s *Session) {
		s.name = name
	}
}

// WithLogger sets a custom structured logger for the session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithClock sets the time source used by timers.
func WithClock(clock ports.Clock) Option {
	return func(s *Session) {
		s.clock = clock
	}
}

// WithLifecycleHooks registers observability hooks.
// Calling it more than once merges the hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Session) {
		s.hooks = domain.MergeHooks(s.hooks, hooks)
	}
}

// WithEventBus replaces the default in-memory bus.
func WithEventBus(bus ports.Publisher) Option {
	return func(s *Session) {
		s.bus = bus
	}
}

// WithDefinition installs a phase tree definition.
func WithDefinition(def *dsl.Definition) Option {
	return func(s *Session) {
		s.def = def
	}
}

// WithDefinitionFile loads and installs a YAML definition.
func WithDefinitionFile(path string) Option {
	return func(s *Session) {
		s.defPath = path
	}
}

// WithRegistry sets the actions available to the definition.
// Defaults to registry.Default().
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Session) {
		s.registry = reg
	}
}

// WithAnnouncer sets where the announce action writes.
func WithAnnouncer(a registry.Announcer) Option {
	return func(s *Session) {
		s.announcer = a
	}
}

// WithSetup builds the tree in Go. It runs after a definition is installed,
// so it can also extend a definition-driven tree.
func WithSetup(fn SetupFunc) Option {
	return func(s *Session) {
		s.setup = fn
	}
}

// New creates a session. The tree is wired but not started.
func New(opts ...Option) (*Session, error) {
	s := &Session{
		logger: logging.NewNop(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.defPath != "" && s.def == nil {
		def, err := dsl.Load(s.defPath)
		if err != nil {
			return nil, err
		}
		s.def = def
	}
	if s.def == nil && s.setup == nil {
		return nil, ErrNoTree
	}
	if s.registry == nil {
		s.registry = registry.Default()
	}
	if s.bus == nil {
		s.bus = memory.NewBus(memory.WithLogger(s.logger))
	}
	if s.name == "" {
		s.name = state.DefaultRootName
		if s.def != nil {
			s.name = s.def.RootName()
		}
	}

	rootOpts := []state.Option{
		state.WithName(s.name),
		state.WithLogger(s.logger),
		state.WithEventBus(s.bus),
		state.WithLifecycleHooks(s.hooks),
	}
	if s.clock != nil {
		rootOpts = append(rootOpts, state.WithClock(s.clock))
	}
	s.root = state.NewRoot(s, rootOpts...)

	if s.def != nil {
		env := registry.Env{Sink: s, Announcer: s.announcer}
		if err := dsl.Install(s.root, s.def, s.registry, env); err != nil {
			return nil, err
		}
	}
	if s.setup != nil {
		if err := s.setup(s.root); err != nil {
			return nil, fmt.Errorf("setup session: %w", err)
		}
	}
	return s, nil
}

// Name returns the root name.
func (s *Session) Name() string { return s.name }

// Root returns the root of the tree.
func (s *Session) Root() *state.Root { return s.root }

// Definition returns the installed definition, or nil for Go-built trees.
func (s *Session) Definition() *dsl.Definition { return s.def }

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger { return s.logger }

// Start enters the root and activates the first phase.
func (s *Session) Start() error {
	s.logger.Info("session started", "root", s.name)
	return s.root.Start()
}

// Stop exits the whole tree. It does not mark the session as over.
func (s *Session) Stop() {
	s.root.Stop()
	s.logger.Info("session stopped", "root", s.name)
}

// Tick delivers the events queued with Enqueue, then ticks the root.
func (s *Session) Tick() error {
	s.Flush()
	if s.Over() {
		return nil
	}
	return s.root.Tick()
}

// Flush publishes the events queued with Enqueue since the last call.
func (s *Session) Flush() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, e := range pending {
		s.Publish(e)
	}
}

// Dispatch delivers an event straight to the tree, bypassing the bus.
func (s *Session) Dispatch(key domain.EventKey, args ...any) state.Report {
	return s.root.Dispatch(key, args...)
}

// Publish delivers an event through the bus. The tree receives it when some
// state listens for its key; other bus subscribers receive it as well.
// It returns the number of bus handlers invoked.
func (s *Session) Publish(e domain.Event) int {
	n := s.bus.Publish(e.EventKey, e.Args...)
	if n == 0 {
		s.logger.Debug("event dropped, no listener", "event", e.String())
	}
	return n
}

// Snapshot returns the current active path with timers.
func (s *Session) Snapshot() *domain.Snapshot {
	return s.root.Snapshot()
}

// Attach routes Enqueue to sink, typically a runner's bounded queue.
// Pass nil to queue inside the session again.
func (s *Session) Attach(sink ports.EventSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

// Enqueue queues an event for the next tick. Safe for concurrent use.
func (s *Session) Enqueue(e domain.Event) error {
	s.mu.Lock()
	sink := s.sink
	if sink == nil {
		s.pending = append(s.pending, e)
	}
	s.mu.Unlock()

	if sink != nil {
		return sink.Enqueue(e)
	}
	return nil
}

// SessionOver implements ports.SessionOwner.
func (s *Session) SessionOver() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// Done is closed when the root runs out of phases.
func (s *Session) Done() <-chan struct{} { return s.done }

// Over reports whether the session is over.
func (s *Session) Over() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
