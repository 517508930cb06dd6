package ports

import "github.com/aretw0/gamestate/pkg/domain"

// EventHandler receives the positional arguments of a matching event.
type EventHandler func(args ...any) error

// CancelFunc removes a subscription. Calling it more than once is a no-op.
type CancelFunc func()

// EventBus is the host's event bus.
type EventBus interface {
	// Subscribe registers handler for key. The returned CancelFunc unsubscribes it.
	Subscribe(key domain.EventKey, handler EventHandler) CancelFunc
}

// EventSink accepts events from goroutines other than the tick goroutine.
// Implementations must be safe for concurrent use and must not block.
type EventSink interface {
	Enqueue(event domain.Event) error
}
