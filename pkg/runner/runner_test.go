package runner_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/gamestate"
	"github.com/aretw0/gamestate/internal/logging"
	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/aretw0/gamestate/pkg/dsl"
	"github.com/aretw0/gamestate/pkg/observability"
	"github.com/aretw0/gamestate/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSession builds lobby -> play -> results. The lobby waits for
// engine:Ready; play and results advance on their first tick.
func newSession(t *testing.T) *gamestate.Session {
	t.Helper()
	b := dsl.New("match")
	b.Phase("lobby").On("engine:Ready", "advance", nil)
	b.Phase("play").OnTick("advance", nil)
	b.Phase("results").OnTick("advance", nil)
	def, err := b.Build()
	require.NoError(t, err)

	sess, err := gamestate.New(gamestate.WithDefinition(def))
	require.NoError(t, err)
	return sess
}

func ready() domain.Event {
	return domain.Event{EventKey: domain.EngineEvent("Ready")}
}

func TestStep_DrainsQueueThenTicks(t *testing.T) {
	sess := newSession(t)
	r := runner.New(sess)
	require.NoError(t, sess.Start())

	require.NoError(t, r.Enqueue(ready()))
	assert.Equal(t, 1, r.Pending())

	require.NoError(t, r.Step())
	assert.Equal(t, 0, r.Pending())
	// The event moved lobby -> play, then the tick moved play -> results.
	assert.Equal(t, []string{"results"}, r.Snapshot().ActivePath())
	assert.Equal(t, uint64(1), r.Ticks())

	require.NoError(t, r.Step())
	assert.True(t, sess.Over())
}

func TestEnqueue_QueueFull(t *testing.T) {
	r := runner.New(newSession(t), runner.WithQueueSize(1))
	require.NoError(t, r.Enqueue(ready()))
	assert.ErrorIs(t, r.Enqueue(ready()), runner.ErrQueueFull)
}

func TestSessionEnqueue_RoutedToRunner(t *testing.T) {
	sess := newSession(t)
	r := runner.New(sess)

	require.NoError(t, sess.Enqueue(ready()))
	assert.Equal(t, 1, r.Pending())
}

func TestRun_UntilSessionOver(t *testing.T) {
	sess := newSession(t)
	var paths []string
	r := runner.New(sess,
		runner.WithTickRate(time.Millisecond),
		runner.WithTickObserver(func(s *domain.Snapshot) {
			paths = append(paths, strings.Join(s.ActivePath(), "/"))
		}),
	)
	require.NoError(t, r.Enqueue(ready()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, r.Run(ctx))

	assert.True(t, sess.Over())
	assert.NoError(t, ctx.Err(), "the session must end before the deadline")
	assert.Equal(t, []string{"results", ""}, paths)
}

func TestRun_StopsOnCancel(t *testing.T) {
	sess := newSession(t)
	r := runner.New(sess, runner.WithTickRate(time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	require.NoError(t, r.Run(ctx))

	assert.False(t, sess.Over())
	assert.True(t, sess.Root().Stopped())
	assert.Nil(t, r.Snapshot().Active)
	assert.Greater(t, r.Ticks(), uint64(0))
}

func TestRun_AlreadyRunning(t *testing.T) {
	r := runner.New(newSession(t), runner.WithTickRate(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return r.Ticks() > 0 }, time.Second, time.Millisecond)
	assert.ErrorIs(t, r.Run(ctx), runner.ErrAlreadyRunning)

	cancel()
	assert.NoError(t, <-done)
}

func TestStep_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	sess := newSession(t)
	r := runner.New(sess, runner.WithMetrics(m))
	require.NoError(t, sess.Start())

	require.NoError(t, r.Step())
	require.NoError(t, r.Step())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Ticks))
}

func TestReadEvents(t *testing.T) {
	sess := newSession(t)
	r := runner.New(sess)
	input := strings.NewReader(`{"event":"engine:Ready"}

not json
{"system":"self","event":"Goal","args":[1]}
`)
	require.NoError(t, runner.ReadEvents(context.Background(), input, r, logging.NewNop()))
	assert.Equal(t, 2, r.Pending())
}

func TestReadEvents_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := runner.ReadEvents(ctx, strings.NewReader("{\"event\":\"x\"}\n"), runner.New(newSession(t)), logging.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapshotWriter_OnlyOnChange(t *testing.T) {
	var buf bytes.Buffer
	w := runner.NewSnapshotWriter(&buf)

	lobby := &domain.Snapshot{Name: "match", Active: &domain.Snapshot{Name: "lobby"}}
	w.Observe(lobby)
	w.Observe(lobby)
	w.Observe(&domain.Snapshot{Name: "match", Active: &domain.Snapshot{Name: "play"}})
	w.Observe(nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"lobby"`)
	assert.Contains(t, lines[1], `"play"`)
}

type brokenWriter struct{ writes int }

func (w *brokenWriter) Write([]byte) (int, error) {
	w.writes++
	return 0, errors.New("broken pipe")
}

func TestSnapshotWriter_KeepsFirstError(t *testing.T) {
	out := &brokenWriter{}
	w := runner.NewSnapshotWriter(out)
	require.NoError(t, w.Err())

	w.Observe(&domain.Snapshot{Name: "match", Active: &domain.Snapshot{Name: "lobby"}})
	w.Observe(&domain.Snapshot{Name: "match", Active: &domain.Snapshot{Name: "play"}})

	assert.EqualError(t, w.Err(), "broken pipe")
	assert.Equal(t, 1, out.writes, "writing stops after the first error")
}
