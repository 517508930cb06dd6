/*
Package state implements the hierarchical, tick-driven state machine at the core of gamestate.

A Node owns an ordered set of named child factories and at most one active
child instance. Children are instantiated lazily when they are activated and
dropped when they are deactivated, so inactive branches cost nothing and a
sub-state can be parameterized per activation by the factory closure.

# Transitions

Toggle is the single transition primitive: it exits the current child, builds
the new one from its factory, runs its init callbacks and enters it. Advance
moves to the next child in insertion order; on the last child it either loops
back to the first one or runs the exhausted callbacks and cascades the
exhaustion to the parent.

# Ticks and events

Tick recurses into the active child before running the node's own tick
callbacks, so descendants always tick before their ancestors. Dispatch runs the
node's handlers for an event key and then forwards the event to the active
child only, which delivers a root-level event along the active path.

# Failure isolation

Every user callback runs inside its own failure boundary. A returned error or a
panic is logged, reported through LifecycleHooks.OnCallbackFailed and counted in
the Report of the list it belongs to; the remaining callbacks and the enclosing
transition continue. Structural errors (see package domain) are returned.

The package is not safe for concurrent use: all calls must happen on the
goroutine that drives Tick.
*/
package state
