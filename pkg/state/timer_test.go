package state_test

import (
	"testing"
	"time"

	"github.com/aretw0/gamestate/internal/testutils"
	"github.com/aretw0/gamestate/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timedRoot(t *testing.T, clock *testutils.FakeClock, timeout state.TimeoutHandler) (*state.Root, *testutils.Recorder) {
	t.Helper()
	rec := &testutils.Recorder{}
	root := state.NewRoot(nil, state.WithClock(clock))
	require.NoError(t, root.AddChild("countdown", func(p *state.Node) *state.Node {
		timer := state.NewTimed(p, 5*time.Second)
		if timeout != nil {
			timer.OnTimeout(timeout)
		}
		return timer.Node().OnEnter(rec.Hook("enter", "countdown"))
	}))
	require.NoError(t, root.AddChild("play", traced(rec, "play")))
	require.NoError(t, root.AddChild("results", traced(rec, "results")))
	return root, rec
}

func TestTimer_FiresOnceAtDeadline(t *testing.T) {
	clock := testutils.NewFakeClock()
	fired := 0
	var firedWith *state.Node
	root, rec := timedRoot(t, clock, func(n *state.Node) error {
		fired++
		firedWith = n
		return nil
	})
	require.NoError(t, root.Start())
	countdown := root.Active()

	clock.Advance(4999 * time.Millisecond)
	require.NoError(t, root.Tick())
	assert.Equal(t, 0, fired)
	assert.Equal(t, "countdown", root.ActiveName())

	clock.Advance(time.Millisecond)
	require.NoError(t, root.Tick())
	assert.Equal(t, 1, fired)
	assert.Same(t, countdown, firedWith)
	assert.Equal(t, "play", root.ActiveName())

	clock.Advance(10 * time.Second)
	require.NoError(t, root.Tick())
	require.NoError(t, root.Tick())
	assert.Equal(t, 1, fired)
	assert.Equal(t, "play", root.ActiveName(), "the timeout must trigger exactly one advance")
	assert.Equal(t, 1, countOf(rec.Lines(), "enter:play"))
}

func TestTimer_TimeoutHandlerRedirect(t *testing.T) {
	clock := testutils.NewFakeClock()
	root, _ := timedRoot(t, clock, func(n *state.Node) error {
		return n.Parent().Toggle("results")
	})
	require.NoError(t, root.Start())

	clock.Advance(5 * time.Second)
	require.NoError(t, root.Tick())
	assert.Equal(t, "results", root.ActiveName())
}

func TestTimer_ResetTimerIsIdempotent(t *testing.T) {
	clock := testutils.NewFakeClock()
	root, _ := timedRoot(t, clock, nil)
	require.NoError(t, root.Start())
	timer := root.Active().Timer()
	require.NotNil(t, timer)

	clock.Advance(2 * time.Second)
	timer.ResetTimer()
	first := timer.Deadline()
	timer.ResetTimer()
	assert.Equal(t, first, timer.Deadline())
	assert.Equal(t, testutils.Epoch.Add(7*time.Second), first)
	assert.InDelta(t, 5.0, timer.SecondsLeft(), 1e-9)
}

func TestTimer_ResetDuration(t *testing.T) {
	clock := testutils.NewFakeClock()
	root, _ := timedRoot(t, clock, nil)
	require.NoError(t, root.Start())
	timer := root.Active().Timer()

	clock.Advance(time.Second)
	timer.ResetDuration(30 * time.Second)
	assert.Equal(t, testutils.Epoch.Add(31*time.Second), timer.Deadline())
	assert.Equal(t, "00:30", timer.Format())

	require.NoError(t, root.Advance())
	require.False(t, timer.Node().IsRunning())
	timer.ResetDuration(time.Hour)
	assert.Equal(t, time.Hour, timer.Duration())
	assert.Equal(t, testutils.Epoch.Add(31*time.Second), timer.Deadline(), "a stopped timer is not re-armed")
}

func TestTimer_FailingHandlerStillAdvances(t *testing.T) {
	clock := testutils.NewFakeClock()
	root, _ := timedRoot(t, clock, func(n *state.Node) error { panic("late player") })
	require.NoError(t, root.Start())

	clock.Advance(5 * time.Second)
	require.NoError(t, root.Tick())
	assert.Equal(t, "play", root.ActiveName())
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		in     time.Duration
		millis bool
		want   string
	}{
		{65 * time.Second, false, "01:05"},
		{3725 * time.Second, false, "01:02:05"},
		{1500 * time.Millisecond, true, "00:01.500"},
		{time.Hour + 250*time.Millisecond, true, "01:00:00.250"},
		{-3 * time.Second, false, "00:00"},
		{4900 * time.Millisecond, false, "00:04"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, state.FormatClock(c.in, c.millis), c.in.String())
	}
	assert.Equal(t, 1500*time.Millisecond, state.Seconds(1.5))
}

func countOf(lines []string, want string) int {
	n := 0
	for _, l := range lines {
		if l == want {
			n++
		}
	}
	return n
}
