package state

import (
	"log/slog"

	"github.com/aretw0/gamestate/internal/logging"
	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/aretw0/gamestate/pkg/ports"
)

// binding carries the host collaborators shared by every node of a tree.
type binding struct {
	root   *Node
	logger *slog.Logger
	clock  ports.Clock
	bus    ports.EventBus
	hooks  domain.LifecycleHooks
	subs   map[domain.EventKey]*subscription
}

type subscription struct {
	refs   int
	cancel ports.CancelFunc
}

// detached serves nodes that are not attached to a root.
var detached = newBinding()

func newBinding() *binding {
	return &binding{
		logger: logging.NewNop(),
		clock:  ports.SystemClock{},
		subs:   make(map[domain.EventKey]*subscription),
	}
}

// retain subscribes the bus on the first reference to key.
func (b *binding) retain(key domain.EventKey) {
	if b.bus == nil || b.root == nil {
		return
	}
	sub, ok := b.subs[key]
	if !ok {
		root := b.root
		sub = &subscription{
			cancel: b.bus.Subscribe(key, func(args ...any) error {
				root.Dispatch(key, args...)
				return nil
			}),
		}
		b.subs[key] = sub
	}
	sub.refs++
}

// release cancels the bus subscription when the last reference goes away.
func (b *binding) release(key domain.EventKey) {
	sub, ok := b.subs[key]
	if !ok {
		return
	}
	sub.refs--
	if sub.refs <= 0 {
		delete(b.subs, key)
		if sub.cancel != nil {
			sub.cancel()
		}
	}
}

// subscribed reports how many nodes currently hold a subscription for key.
func (b *binding) subscribed(key domain.EventKey) int {
	if sub, ok := b.subs[key]; ok {
		return sub.refs
	}
	return 0
}
