/*
Package domain contains the shared vocabulary of the gamestate engine.

It defines the event keys used to route host events through the state tree,
the structural errors reported by tree operations, the lifecycle events emitted
for observability, and the read-only snapshot of the active path. This package
is kept pure and free of I/O so every adapter can depend on it.

# Key Entities

  - EventKey: The (namespace, system, event) triple identifying a host event.
  - Event: An EventKey plus positional arguments, as queued by event sources.
  - LifecycleHooks: Observability callbacks fired by the state tree.
  - Snapshot: A serializable view of the active path at a point in time.
*/
package domain
