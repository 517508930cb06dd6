package registry

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/aretw0/gamestate/pkg/ports"
	"github.com/aretw0/gamestate/pkg/schema"
	"github.com/aretw0/gamestate/pkg/state"
)

// Announcer shows a message to the people watching the session.
type Announcer interface {
	Announce(path, message string)
}

// Env carries the host collaborators available to actions.
// Every field is optional.
type Env struct {
	Sink      ports.EventSink
	Announcer Announcer
}

// Call is the input of a single action invocation.
type Call struct {
	// Node is the state the action is attached to.
	Node *state.Node
	// Args are the static parameters from the phase definition.
	Args map[string]any
	// Event holds the event arguments when the action handles an event.
	Event []any
	Env   Env
}

// Action is a named Go function invoked by definition-driven phases.
type Action func(call Call) error

// Registry manages the available actions.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]Action
	schemas map[string]schema.Schema
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]Action),
		schemas: make(map[string]schema.Schema),
	}
}

// Default returns a registry holding the built-in actions.
func Default() *Registry {
	r := NewRegistry()
	RegisterBuiltins(r)
	return r
}

// Register adds an action to the registry.
// If an action with the same name exists, it is overwritten.
// Its arguments are not checked; see RegisterWithSchema.
func (r *Registry) Register(name string, fn Action) {
	r.RegisterWithSchema(name, nil, fn)
}

// RegisterWithSchema adds an action whose arguments are checked against s
// when a definition is validated.
func (r *Registry) RegisterWithSchema(name string, s schema.Schema, fn Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = fn
	if s == nil {
		delete(r.schemas, name)
		return
	}
	r.schemas[name] = s
}

// Schema returns the argument schema of name, if it declared one.
func (r *Registry) Schema(name string) (schema.Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

// CheckArgs validates args against the schema of name.
func (r *Registry) CheckArgs(name string, args map[string]any) error {
	if !r.Has(name) {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	s, _ := r.Schema(name)
	return schema.Validate(s, args)
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.actions[name]
	return ok
}

// Names returns the registered action names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Invoke looks up an action by name and executes it.
// Returns an error if the action is not found.
func (r *Registry) Invoke(name string, call Call) error {
	r.mu.RLock()
	fn, ok := r.actions[name]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	if call.Node != nil {
		call.Node.Logger().Debug("action", "name", name, "path", call.Node.Path())
	}
	return fn(call)
}

func (c Call) logger() *slog.Logger {
	return c.Node.Logger()
}
