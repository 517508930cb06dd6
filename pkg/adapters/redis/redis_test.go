package redis_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/gamestate/pkg/adapters/redis"
	"github.com/aretw0/gamestate/pkg/domain"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu     sync.Mutex
	events []domain.Event
}

func (c *collector) Enqueue(e domain.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func (c *collector) Events() []domain.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Event(nil), c.events...)
}

func setup(t *testing.T) *backend.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSource_ForwardsPublishedEvents(t *testing.T) {
	client := setup(t)
	sink := &collector{}
	src := redis.NewSource(client, sink, redis.WithPrefix("test:"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- src.Run(ctx) }()

	select {
	case <-src.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not confirmed")
	}

	pub := redis.NewPublisher(client, redis.WithPrefix("test:"))
	assert.Equal(t, "test:events:host:engine:PlayerJoin", pub.Channel(domain.EngineEvent("PlayerJoin")))

	_, err := pub.Publish(ctx, domain.Event{EventKey: domain.EngineEvent("PlayerJoin"), Args: []any{"alice", 7}})
	require.NoError(t, err)
	_, err = pub.Publish(ctx, domain.Event{EventKey: domain.SelfEvent("Goal")})
	require.NoError(t, err)

	// Malformed messages are skipped.
	require.NoError(t, client.Publish(ctx, "test:events:a::b", "").Err())
	require.NoError(t, client.Publish(ctx, "test:events:Goal", "{not json").Err())

	require.Eventually(t, func() bool { return len(sink.Events()) == 2 }, 2*time.Second, 10*time.Millisecond)
	events := sink.Events()
	assert.Equal(t, domain.EngineEvent("PlayerJoin"), events[0].EventKey)
	assert.Equal(t, []any{"alice", float64(7)}, events[0].Args)
	assert.Equal(t, domain.SelfEvent("Goal"), events[1].EventKey)
	assert.Empty(t, events[1].Args)

	cancel()
	assert.NoError(t, <-done)
}

func TestSource_SubscribeFailure(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err = redis.NewSource(client, &collector{}).Run(ctx)
	assert.Error(t, err)
}

func TestMirror_StoresOnChange(t *testing.T) {
	client := setup(t)
	ctx := context.Background()
	m := redis.NewMirror(ctx, client, redis.WithTTL(time.Minute))

	lobby := &domain.Snapshot{Name: "match", Children: []string{"lobby", "play"}, Active: &domain.Snapshot{Name: "lobby"}}
	m.Observe(lobby)

	got, err := m.Load(ctx, "match")
	require.NoError(t, err)
	assert.Equal(t, []string{"lobby"}, got.ActivePath())
	assert.Equal(t, "gamestate:state:match", m.Key("match"))

	ttl, err := client.TTL(ctx, m.Key("match")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	// Unchanged paths are not rewritten.
	require.NoError(t, client.Del(ctx, m.Key("match")).Err())
	m.Observe(lobby)
	_, err = m.Load(ctx, "match")
	assert.Error(t, err)

	m.Observe(&domain.Snapshot{Name: "match", Active: &domain.Snapshot{Name: "play"}})
	got, err = m.Load(ctx, "match")
	require.NoError(t, err)
	assert.Equal(t, []string{"play"}, got.ActivePath())
}
