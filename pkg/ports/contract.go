package ports

import (
	"errors"
	"testing"

	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Publisher is implemented by buses that can deliver events synchronously.
type Publisher interface {
	EventBus
	Publish(key domain.EventKey, args ...any) int
}

// RunEventBusContract runs a suite of tests to verify that an EventBus implementation
// adheres to the defined interface contract.
func RunEventBusContract(t *testing.T, newBus func() Publisher) {
	key := domain.EngineEvent("PlayerJoin")

	t.Run("Subscribe and Publish", func(t *testing.T) {
		bus := newBus()
		var got []any
		bus.Subscribe(key, func(args ...any) error {
			got = append(got, args...)
			return nil
		})

		delivered := bus.Publish(key, "steve", 3)
		assert.Equal(t, 1, delivered)
		assert.Equal(t, []any{"steve", 3}, got)
	})

	t.Run("Key Isolation", func(t *testing.T) {
		bus := newBus()
		called := false
		bus.Subscribe(key, func(args ...any) error {
			called = true
			return nil
		})

		delivered := bus.Publish(domain.SelfEvent("PlayerJoin"), "steve")
		assert.Equal(t, 0, delivered)
		assert.False(t, called, "handler must not see events for another system")
	})

	t.Run("Subscription Order", func(t *testing.T) {
		bus := newBus()
		var order []int
		for i := 0; i < 3; i++ {
			i := i
			bus.Subscribe(key, func(args ...any) error {
				order = append(order, i)
				return nil
			})
		}
		bus.Publish(key)
		assert.Equal(t, []int{0, 1, 2}, order)
	})

	t.Run("Handler Errors Do Not Stop Delivery", func(t *testing.T) {
		bus := newBus()
		second := false
		bus.Subscribe(key, func(args ...any) error { return errors.New("boom") })
		bus.Subscribe(key, func(args ...any) error {
			second = true
			return nil
		})
		assert.Equal(t, 2, bus.Publish(key))
		assert.True(t, second)
	})

	t.Run("Cancel", func(t *testing.T) {
		bus := newBus()
		calls := 0
		cancel := bus.Subscribe(key, func(args ...any) error {
			calls++
			return nil
		})
		require.Equal(t, 1, bus.Publish(key))

		cancel()
		cancel()
		assert.Equal(t, 0, bus.Publish(key))
		assert.Equal(t, 1, calls)
	})
}
