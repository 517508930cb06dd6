package state

import (
	"fmt"
	"slices"

	"github.com/aretw0/gamestate/pkg/domain"
)

// Toggle makes the child registered under name the active child.
// The current child is exited and dropped first; the new child is built from
// its factory, recorded as active, initialized and entered.
func (n *Node) Toggle(name string) error {
	factory, ok := n.factories[name]
	if !ok {
		return fmt.Errorf("%w: %q in %q", domain.ErrUnknownChild, name, n.Path())
	}

	if n.active != nil {
		seen := n.transitions
		n.deactivate()
		if n.transitions != seen || n.destroyed {
			n.Logger().Debug("toggle superseded by callback", "path", n.Path(), "want", name, "active", n.activeName)
			return nil
		}
	}

	child := factory(n)
	if child == nil {
		return fmt.Errorf("%w: %q in %q", domain.ErrNilFactory, name, n.Path())
	}
	if child == n {
		return fmt.Errorf("%w: factory for %q returned its parent %q", domain.ErrRecursiveTick, name, n.Path())
	}
	child.parent = n
	child.name = name

	n.active, n.activeName = child, name
	n.transitions++
	n.Logger().Debug("state toggle", "path", child.Path())

	child.init()
	return child.enter()
}

// Advance moves to the next child in insertion order.
//
// With no active child the first child is activated, or the exhausted
// callbacks run when there are no children. On the last child a looping node
// restarts at the first one; otherwise the exhausted callbacks run and, unless
// they changed the active child or detached the node, the last child is exited
// and the parent advances.
func (n *Node) Advance() error {
	if n.activeName == "" {
		if len(n.names) == 0 {
			n.exhaust()
			return nil
		}
		return n.Toggle(n.names[0])
	}
	if n.active == nil {
		return fmt.Errorf("%w: %q in %q", domain.ErrMissingActiveChild, n.activeName, n.Path())
	}

	i := slices.Index(n.names, n.activeName)
	if i+1 < len(n.names) {
		return n.Toggle(n.names[i+1])
	}

	if n.loop {
		seen := n.transitions
		n.deactivate()
		if n.transitions != seen {
			return nil
		}
		return n.Advance()
	}

	last := n.activeName
	n.exhaust()
	if !n.IsRunning() || n.activeName != last {
		n.Logger().Debug("exhaustion redirected by callback", "path", n.Path(), "active", n.activeName)
		return nil
	}

	seen := n.transitions
	n.deactivate()
	if n.transitions != seen || !n.IsRunning() {
		n.Logger().Debug("exhaustion redirected by exit callback", "path", n.Path(), "active", n.activeName)
		return nil
	}
	if n.parent != nil {
		return n.parent.Advance()
	}
	return nil
}

// Tick ticks the active child, then runs the node's own tick callbacks.
func (n *Node) Tick() error {
	var err error
	if child := n.active; child != nil {
		if child == n {
			err = fmt.Errorf("%w: %q", domain.ErrRecursiveTick, n.Path())
			n.Logger().Error("skipping recursive tick", "path", n.Path(), "child", n.activeName)
		} else {
			err = child.Tick()
		}
	} else if n.activeName != "" {
		err = fmt.Errorf("%w: %q in %q", domain.ErrMissingActiveChild, n.activeName, n.Path())
	}
	n.run(domain.CallbackTick, n.onTick)
	return err
}

func (n *Node) init() {
	n.run(domain.CallbackInit, n.onInit)
}

func (n *Node) enter() error {
	n.Logger().Debug("state enter", "path", n.Path())
	n.emit(domain.EventStateEnter)
	n.run(domain.CallbackEnter, n.onEnter)

	// An enter callback may already have selected a child.
	if len(n.names) > 0 && n.active == nil && n.IsRunning() {
		return n.Advance()
	}
	return nil
}

// exit drops the active descendants, deepest first, then runs the exit callbacks.
func (n *Node) exit() {
	for n.active != nil {
		n.deactivate()
	}
	n.Logger().Debug("state exit", "path", n.Path())
	n.run(domain.CallbackExit, n.onExit)
	n.emit(domain.EventStateExit)
}

// deactivate exits the active child, clears it and destroys the instance.
// A child that is already exiting is only detached; the outer deactivate
// that started its exit destroys it.
func (n *Node) deactivate() {
	child := n.active
	if child == nil {
		n.activeName = ""
		return
	}
	if child.exiting {
		n.active, n.activeName = nil, ""
		return
	}
	if child != n {
		child.exiting = true
		child.exit()
		child.exiting = false
	}
	if n.active == child {
		n.active, n.activeName = nil, ""
	}
	if child != n {
		child.destroy()
	}
}

func (n *Node) exhaust() {
	n.Logger().Debug("state exhausted", "path", n.Path())
	n.emit(domain.EventStateExhausted)
	n.run(domain.CallbackExhausted, n.onExhausted)
}

// destroy runs the destroy callbacks and releases every bus subscription the
// node registered. A destroyed instance is never reused.
func (n *Node) destroy() {
	if n.destroyed {
		return
	}
	n.destroyed = true
	for n.active != nil {
		n.deactivate()
	}
	n.run(domain.CallbackDestroy, n.onDestroy)
	n.unlistenAll()
}

// Finish drops the active child and runs the exhausted callbacks, then
// cascades to the parent exactly like Advance past the last child. Looping
// is ignored. On the root this ends the session.
func (n *Node) Finish() error {
	for n.active != nil {
		n.deactivate()
	}
	n.exhaust()
	if !n.IsRunning() || n.active != nil {
		return nil
	}
	if n.parent != nil {
		return n.parent.Advance()
	}
	return nil
}
