package dsl

import (
	"time"

	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/aretw0/gamestate/pkg/state"
)

// Args are the static parameters passed to an action.
type Args map[string]any

// ActionRef names a registered action and its parameters.
// In YAML a bare string is shorthand for an action without parameters.
type ActionRef struct {
	Do   string `json:"do" mapstructure:"do"`
	With Args   `json:"with,omitempty" mapstructure:"with"`
}

// Handler binds actions to an event key ("event", "system:event" or
// "namespace:system:event").
type Handler struct {
	Event string      `json:"event" mapstructure:"event"`
	Do    []ActionRef `json:"do" mapstructure:"do"`
}

// Phase is one state of the tree.
type Phase struct {
	Name        string        `json:"name" mapstructure:"name"`
	Description string        `json:"description,omitempty" mapstructure:"description"`
	Loop        bool          `json:"loop,omitempty" mapstructure:"loop"`
	Duration    time.Duration `json:"duration,omitempty" mapstructure:"duration"`

	OnInit      []ActionRef `json:"on_init,omitempty" mapstructure:"on_init"`
	OnEnter     []ActionRef `json:"on_enter,omitempty" mapstructure:"on_enter"`
	OnExit      []ActionRef `json:"on_exit,omitempty" mapstructure:"on_exit"`
	OnTick      []ActionRef `json:"on_tick,omitempty" mapstructure:"on_tick"`
	OnExhausted []ActionRef `json:"on_exhausted,omitempty" mapstructure:"on_exhausted"`
	OnDestroy   []ActionRef `json:"on_destroy,omitempty" mapstructure:"on_destroy"`
	OnTimeout   []ActionRef `json:"on_timeout,omitempty" mapstructure:"on_timeout"`
	On          []Handler   `json:"on,omitempty" mapstructure:"on"`

	Phases []Phase `json:"phases,omitempty" mapstructure:"phases"`
}

// Timed reports whether the phase carries a timer.
func (p *Phase) Timed() bool { return p.Duration > 0 }

// Definition is a whole tree. Its top-level phase becomes the root.
type Definition struct {
	Version string `json:"version,omitempty" mapstructure:"version"`
	Phase   `mapstructure:",squash"`
}

// Walk visits every phase below the root depth first, in declaration order.
// path is the slash separated path including the root name.
func (d *Definition) Walk(fn func(path string, p *Phase)) {
	var walk func(prefix string, phases []Phase)
	walk = func(prefix string, phases []Phase) {
		for i := range phases {
			p := &phases[i]
			path := prefix + domain.PathSeparator + p.Name
			fn(path, p)
			walk(path, p.Phases)
		}
	}
	walk(d.RootName(), d.Phases)
}

// RootName returns the name of the root node.
func (d *Definition) RootName() string {
	if d.Name == "" {
		return state.DefaultRootName
	}
	return d.Name
}

// Count returns the number of phases below the root.
func (d *Definition) Count() int {
	n := 0
	d.Walk(func(string, *Phase) { n++ })
	return n
}
