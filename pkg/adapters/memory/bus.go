package memory

import (
	"log/slog"
	"sync"

	"github.com/aretw0/gamestate/internal/logging"
	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/aretw0/gamestate/pkg/ports"
)

// Bus implements ports.EventBus in memory.
// Publish delivers synchronously on the caller's goroutine, in subscription order.
// Safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[domain.EventKey][]entry
	logger *slog.Logger
}

type entry struct {
	id      uint64
	handler ports.EventHandler
}

// Option configures the Bus.
type Option func(*Bus)

// WithLogger configures a logger for handler failures.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		b.logger = logger
	}
}

// NewBus creates a new in-memory bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		subs:   make(map[domain.EventKey][]entry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers handler for key.
func (b *Bus) Subscribe(key domain.EventKey, handler ports.EventHandler) ports.CancelFunc {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[key] = append(b.subs[key], entry{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(key, id) })
	}
}

func (b *Bus) remove(key domain.EventKey, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := b.subs[key]
	for i, e := range entries {
		if e.id == id {
			b.subs[key] = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	if len(b.subs[key]) == 0 {
		delete(b.subs, key)
	}
}

// Publish delivers args to every handler subscribed to key and returns how
// many handlers were invoked. Handler errors are logged and do not stop delivery.
func (b *Bus) Publish(key domain.EventKey, args ...any) int {
	// Copy under lock so handlers may subscribe or cancel while we deliver.
	b.mu.RLock()
	entries := append([]entry(nil), b.subs[key]...)
	b.mu.RUnlock()

	for _, e := range entries {
		if err := e.handler(args...); err != nil {
			b.logger.Warn("event handler failed", "event", key.String(), "err", err)
		}
	}
	return len(entries)
}

// Topics returns the keys that currently have at least one subscriber.
func (b *Bus) Topics() []domain.EventKey {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]domain.EventKey, 0, len(b.subs))
	for k := range b.subs {
		keys = append(keys, k)
	}
	return keys
}
