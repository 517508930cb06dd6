package state

import (
	"slices"

	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/aretw0/gamestate/pkg/ports"
)

// Listen registers handler for key on this node. The first registration of a
// key also subscribes the tree's event bus, so host events reach the root.
func (n *Node) Listen(key domain.EventKey, handler ports.EventHandler) *Node {
	if n.listeners == nil {
		n.listeners = make(map[domain.EventKey][]ports.EventHandler)
	}
	if _, seen := n.listeners[key]; !seen {
		if n.retained == nil {
			n.retained = n.bind()
		}
		n.retained.retain(key)
		n.keys = append(n.keys, key)
	}
	n.listeners[key] = append(n.listeners[key], handler)
	return n
}

// ListenEngine registers handler for an engine-originated event.
func (n *Node) ListenEngine(event string, handler ports.EventHandler) *Node {
	return n.Listen(domain.EngineEvent(event), handler)
}

// ListenSelf registers handler for a custom event raised by the hosting object.
func (n *Node) ListenSelf(event string, handler ports.EventHandler) *Node {
	return n.Listen(domain.SelfEvent(event), handler)
}

// Dispatch runs the node's handlers for key, then forwards the event to the
// active child. Inactive children never see the event.
func (n *Node) Dispatch(key domain.EventKey, args ...any) Report {
	var rep Report
	for i, h := range slices.Clone(n.listeners[key]) {
		rep.Ran++
		if err := guard(func() error { return h(args...) }); err != nil {
			rep.Failed++
			n.fail(domain.CallbackEvent, i, err)
		}
	}
	if child := n.active; child != nil && child != n {
		rep = rep.Add(child.Dispatch(key, args...))
	}
	return rep
}

// Listening reports whether the node has a handler for key.
func (n *Node) Listening(key domain.EventKey) bool {
	return len(n.listeners[key]) > 0
}

func (n *Node) unlistenAll() {
	if n.retained != nil {
		for _, key := range n.keys {
			n.retained.release(key)
		}
	}
	n.keys = nil
	n.listeners = nil
}
