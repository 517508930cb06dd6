/*
Package ports defines the driven ports (interfaces) between the gamestate core and its host.

These interfaces decouple the state tree from the engine it is embedded in,
allowing the same phase definitions to run under a CLI, an HTTP service or a
test harness with a fake clock.

# Key Interfaces

  - EventBus: The host's event bus; the root subscribes one routing handler per event key.
  - EventSink: Thread-safe ingress for events produced outside the tick goroutine.
  - Clock: The time source used by timers.
  - SessionOwner: Notified when the root state is exhausted.
*/
package ports
