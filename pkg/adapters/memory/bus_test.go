package memory_test

import (
	"testing"

	"github.com/aretw0/gamestate/pkg/adapters/memory"
	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/aretw0/gamestate/pkg/ports"
	"github.com/stretchr/testify/assert"
)

func TestMemoryBus_Contract(t *testing.T) {
	ports.RunEventBusContract(t, func() ports.Publisher { return memory.NewBus() })
}

func TestMemoryBus_Topics(t *testing.T) {
	bus := memory.NewBus()
	key := domain.SelfEvent("RoundStart")
	cancel := bus.Subscribe(key, func(args ...any) error { return nil })
	assert.Equal(t, []domain.EventKey{key}, bus.Topics())

	cancel()
	assert.Empty(t, bus.Topics())
}

func TestMemoryBus_CancelDuringPublish(t *testing.T) {
	bus := memory.NewBus()
	key := domain.SelfEvent("RoundStart")
	calls := 0
	var cancel ports.CancelFunc
	cancel = bus.Subscribe(key, func(args ...any) error {
		calls++
		cancel()
		return nil
	})

	assert.Equal(t, 1, bus.Publish(key))
	assert.Equal(t, 0, bus.Publish(key))
	assert.Equal(t, 1, calls)
}
