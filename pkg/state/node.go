package state

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/aretw0/gamestate/pkg/ports"
)

// Factory builds a child node bound to parent. It is called every time the
// child is activated; the returned node must be created with New(parent).
type Factory func(parent *Node) *Node

// Callback is a zero-argument lifecycle callback.
type Callback func() error

// Node is the recursive unit of the state tree.
type Node struct {
	parent *Node
	name   string

	names      []string
	factories  map[string]Factory
	activeName string
	active     *Node
	loop       bool

	onInit      []Callback
	onEnter     []Callback
	onExit      []Callback
	onTick      []Callback
	onExhausted []Callback
	onDestroy   []Callback

	listeners map[domain.EventKey][]ports.EventHandler
	keys      []domain.EventKey
	retained  *binding

	timer     *Timer
	binding   *binding
	destroyed bool

	// exiting is set while the node runs its exit as the outgoing child.
	exiting bool
	// transitions counts the children this node has activated.
	transitions uint64
}

// New creates a node whose parent is parent. Pass nil only for detached nodes;
// roots are created with NewRoot.
func New(parent *Node) *Node {
	return &Node{
		parent:    parent,
		factories: make(map[string]Factory),
	}
}

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Name returns the name the node was activated under.
func (n *Node) Name() string { return n.name }

// Path returns the slash separated names from the root to this node.
func (n *Node) Path() string {
	if n.parent == nil {
		return n.name
	}
	return n.parent.Path() + domain.PathSeparator + n.name
}

// Children returns the child names in traversal order.
func (n *Node) Children() []string {
	return slices.Clone(n.names)
}

// HasChild reports whether a child named name is registered.
func (n *Node) HasChild(name string) bool {
	_, ok := n.factories[name]
	return ok
}

// ActiveName returns the name of the active child, or "" when none is active.
func (n *Node) ActiveName() string { return n.activeName }

// Active returns the active child instance, or nil.
func (n *Node) Active() *Node { return n.active }

// Loop reports whether Advance restarts at the first child after the last one.
func (n *Node) Loop() bool { return n.loop }

// SetLoop configures looping.
func (n *Node) SetLoop(loop bool) *Node {
	n.loop = loop
	return n
}

// Timer returns the timer extension attached to the node, if any.
func (n *Node) Timer() *Timer { return n.timer }

// IsRunning reports whether the node is the root or its parent's active child.
func (n *Node) IsRunning() bool {
	if n.parent == nil {
		return true
	}
	return n.parent.active == n
}

// RunningName returns the name under which the node is active in its parent.
func (n *Node) RunningName() (string, bool) {
	if n.parent == nil || !n.IsRunning() {
		return "", false
	}
	return n.parent.activeName, true
}

// Logger returns the logger of the tree the node belongs to.
func (n *Node) Logger() *slog.Logger { return n.bind().logger }

// Now reads the clock of the tree the node belongs to.
func (n *Node) Now() time.Time { return n.bind().clock.Now() }

// AddChild registers a factory under name. The child is not instantiated.
func (n *Node) AddChild(name string, factory Factory) error {
	if _, exists := n.factories[name]; exists {
		return fmt.Errorf("%w: %q in %q", domain.ErrDuplicateName, name, n.Path())
	}
	if factory == nil {
		return fmt.Errorf("%w: %q in %q", domain.ErrNilFactory, name, n.Path())
	}
	n.factories[name] = factory
	n.names = append(n.names, name)
	return nil
}

// RemoveChild permanently removes the child registered under name.
// If it is the active child the node advances first, so the removed child is
// never observed as active.
func (n *Node) RemoveChild(name string) (bool, error) {
	if _, ok := n.factories[name]; !ok {
		return false, fmt.Errorf("%w: %q in %q", domain.ErrUnknownChild, name, n.Path())
	}
	if n.activeName == name {
		if err := n.Advance(); err != nil {
			return false, err
		}
		// Looping back onto the only child, or an exhausted callback that
		// kept it active, leaves it selected.
		if n.activeName == name {
			n.deactivate()
		}
	}
	delete(n.factories, name)
	n.names = slices.DeleteFunc(n.names, func(s string) bool { return s == name })
	return true, nil
}

// OnInit appends a callback run once when the node is instantiated.
func (n *Node) OnInit(cb Callback) *Node {
	n.onInit = append(n.onInit, cb)
	return n
}

// OnEnter appends a callback run each time the node is entered.
func (n *Node) OnEnter(cb Callback) *Node {
	n.onEnter = append(n.onEnter, cb)
	return n
}

// OnExit appends a callback run each time the node is exited.
func (n *Node) OnExit(cb Callback) *Node {
	n.onExit = append(n.onExit, cb)
	return n
}

// OnTick appends a callback run on every tick while the node is active.
func (n *Node) OnTick(cb Callback) *Node {
	n.onTick = append(n.onTick, cb)
	return n
}

// OnExhausted appends a callback run when Advance finds no next child.
func (n *Node) OnExhausted(cb Callback) *Node {
	n.onExhausted = append(n.onExhausted, cb)
	return n
}

// OnDestroy appends a callback run when the node instance is dropped.
func (n *Node) OnDestroy(cb Callback) *Node {
	n.onDestroy = append(n.onDestroy, cb)
	return n
}

// Snapshot returns a read-only view of the node and its active descendants.
func (n *Node) Snapshot() *domain.Snapshot {
	s := &domain.Snapshot{
		Name:     n.name,
		Loop:     n.loop,
		Children: n.Children(),
	}
	if n.timer != nil {
		s.Timer = n.timer.snapshot()
	}
	if n.active != nil && n.active != n {
		s.Active = n.active.Snapshot()
	}
	return s
}

func (n *Node) top() *Node {
	cur := n
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

func (n *Node) bind() *binding {
	if b := n.top().binding; b != nil {
		return b
	}
	return detached
}
