package dsl

import (
	"fmt"

	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/aretw0/gamestate/pkg/registry"
	"github.com/aretw0/gamestate/pkg/state"
)

// Install validates def and wires it into root: the root receives the
// top-level callbacks and handlers, and every phase becomes a lazy child
// factory. Nothing below the root is instantiated until it is activated.
func Install(root *state.Root, def *Definition, reg *registry.Registry, env registry.Env) error {
	if reg == nil {
		reg = registry.Default()
	}
	if err := Validate(def, reg); err != nil {
		return err
	}
	c := &compiler{reg: reg, env: env}

	root.SetLoop(def.Loop)
	return c.configure(root.Node, &def.Phase)
}

// Factory compiles a single phase into a state factory.
func Factory(p Phase, reg *registry.Registry, env registry.Env) state.Factory {
	if reg == nil {
		reg = registry.Default()
	}
	c := &compiler{reg: reg, env: env}
	return c.factory(p)
}

type compiler struct {
	reg *registry.Registry
	env registry.Env
}

func (c *compiler) factory(p Phase) state.Factory {
	return func(parent *state.Node) *state.Node {
		var n *state.Node
		if p.Timed() {
			t := state.NewTimed(parent, p.Duration)
			for _, ref := range p.OnTimeout {
				t.OnTimeout(func(n *state.Node) error {
					return c.invoke(ref, n, nil)
				})
			}
			n = t.Node()
		} else {
			n = state.New(parent)
		}
		n.SetLoop(p.Loop)
		if err := c.configure(n, &p); err != nil {
			// Unreachable for validated definitions.
			n.Logger().Error("phase setup failed", "phase", p.Name, "err", err)
		}
		return n
	}
}

// configure attaches callbacks, handlers and child factories to n.
func (c *compiler) configure(n *state.Node, p *Phase) error {
	for _, ref := range p.OnInit {
		n.OnInit(c.callback(ref, n))
	}
	for _, ref := range p.OnEnter {
		n.OnEnter(c.callback(ref, n))
	}
	for _, ref := range p.OnExit {
		n.OnExit(c.callback(ref, n))
	}
	for _, ref := range p.OnTick {
		n.OnTick(c.callback(ref, n))
	}
	for _, ref := range p.OnExhausted {
		n.OnExhausted(c.callback(ref, n))
	}
	for _, ref := range p.OnDestroy {
		n.OnDestroy(c.callback(ref, n))
	}
	for _, h := range p.On {
		key, err := domain.ParseEventKey(h.Event)
		if err != nil {
			return err
		}
		for _, ref := range h.Do {
			n.Listen(key, func(args ...any) error {
				return c.invoke(ref, n, args)
			})
		}
	}
	for _, child := range p.Phases {
		if err := n.AddChild(child.Name, c.factory(child)); err != nil {
			return fmt.Errorf("install %q: %w", child.Name, err)
		}
	}
	return nil
}

func (c *compiler) callback(ref ActionRef, n *state.Node) state.Callback {
	return func() error {
		return c.invoke(ref, n, nil)
	}
}

func (c *compiler) invoke(ref ActionRef, n *state.Node, event []any) error {
	return c.reg.Invoke(ref.Do, registry.Call{
		Node:  n,
		Args:  ref.With,
		Event: event,
		Env:   c.env,
	})
}
