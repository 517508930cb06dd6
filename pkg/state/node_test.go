package state_test

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/aretw0/gamestate/internal/testutils"
	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/aretw0/gamestate/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ownerFunc func()

func (f ownerFunc) SessionOver() { f() }

// traced builds a leaf that records its lifecycle.
func traced(rec *testutils.Recorder, name string) state.Factory {
	return func(p *state.Node) *state.Node {
		return state.New(p).
			OnInit(rec.Hook("init", name)).
			OnEnter(rec.Hook("enter", name)).
			OnExit(rec.Hook("exit", name))
	}
}

// composite builds a node with the given traced leaves.
func composite(rec *testutils.Recorder, name string, loop bool, leaves ...string) state.Factory {
	return func(p *state.Node) *state.Node {
		n := state.New(p).
			SetLoop(loop).
			OnInit(rec.Hook("init", name)).
			OnEnter(rec.Hook("enter", name)).
			OnExit(rec.Hook("exit", name)).
			OnExhausted(rec.Hook("exhausted", name))
		for _, leaf := range leaves {
			if err := n.AddChild(leaf, traced(rec, leaf)); err != nil {
				panic(err)
			}
		}
		return n
	}
}

func TestAdvance_VisitsChildrenInOrderAndCascades(t *testing.T) {
	rec := &testutils.Recorder{}
	over := 0
	root := state.NewRoot(ownerFunc(func() { over++ }))
	require.NoError(t, root.AddChild("round", composite(rec, "round", false, "a", "b", "c")))
	require.NoError(t, root.AddChild("results", traced(rec, "results")))

	require.NoError(t, root.Start())
	round := root.Active()
	require.NotNil(t, round)
	assert.Equal(t, "a", round.ActiveName())
	assert.Equal(t, []string{"init:round", "enter:round", "init:a", "enter:a"}, rec.Lines())

	rec.Reset()
	require.NoError(t, round.Advance())
	assert.Equal(t, "b", round.ActiveName())
	require.NoError(t, round.Advance())
	assert.Equal(t, "c", round.ActiveName())
	assert.Equal(t, []string{"exit:a", "init:b", "enter:b", "exit:b", "init:c", "enter:c"}, rec.Lines())

	rec.Reset()
	require.NoError(t, round.Advance())
	assert.Equal(t, "results", root.ActiveName())
	assert.False(t, round.IsRunning())
	assert.Equal(t, []string{"exhausted:round", "exit:c", "exit:round", "init:results", "enter:results"}, rec.Lines())
	assert.Equal(t, 0, over)

	require.NoError(t, root.Advance())
	assert.Equal(t, 1, over, "root exhaustion must notify the owner")
	assert.Empty(t, root.ActiveName())
	assert.Nil(t, root.Active())
}

func TestAdvance_LoopNeverExhausts(t *testing.T) {
	rec := &testutils.Recorder{}
	root := state.NewRoot(nil)
	require.NoError(t, root.AddChild("cycle", composite(rec, "cycle", true, "a", "b")))
	require.NoError(t, root.Start())

	cycle := root.Active()
	var seen []string
	for i := 0; i < 6; i++ {
		seen = append(seen, cycle.ActiveName())
		require.NoError(t, cycle.Advance())
	}

	assert.Equal(t, []string{"a", "b", "a", "b", "a", "b"}, seen)
	assert.NotContains(t, rec.Lines(), "exhausted:cycle")
	assert.True(t, cycle.IsRunning())
}

func TestAdvance_ZeroChildrenExhaustsWithoutInstantiating(t *testing.T) {
	n := state.New(nil)
	exhausted := 0
	n.OnExhausted(func() error {
		exhausted++
		return nil
	})

	require.NoError(t, n.Advance())
	require.NoError(t, n.Advance())

	assert.Equal(t, 2, exhausted)
	assert.Nil(t, n.Active())
	assert.Empty(t, n.ActiveName())
}

func TestRemoveChild_ActiveAdvancesFirst(t *testing.T) {
	rec := &testutils.Recorder{}
	root := state.NewRoot(nil)
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, root.AddChild(name, traced(rec, name)))
	}
	require.NoError(t, root.Start())
	require.NoError(t, root.Advance())
	require.Equal(t, "b", root.ActiveName())

	removed, err := root.RemoveChild("b")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, "c", root.ActiveName())
	assert.Equal(t, []string{"a", "c"}, root.Children())
	assert.False(t, root.HasChild("b"))

	removed, err = root.RemoveChild("missing")
	assert.False(t, removed)
	assert.ErrorIs(t, err, domain.ErrUnknownChild)
}

func TestRemoveChild_OnlyLoopingChildIsDropped(t *testing.T) {
	rec := &testutils.Recorder{}
	root := state.NewRoot(nil)
	require.NoError(t, root.AddChild("cycle", composite(rec, "cycle", true, "only")))
	require.NoError(t, root.Start())
	cycle := root.Active()
	require.Equal(t, "only", cycle.ActiveName())

	removed, err := cycle.RemoveChild("only")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, cycle.ActiveName())
	assert.Nil(t, cycle.Active())
	assert.Empty(t, cycle.Children())
}

func TestAddChild_DuplicateKeepsExisting(t *testing.T) {
	rec := &testutils.Recorder{}
	n := state.New(nil)
	require.NoError(t, n.AddChild("a", traced(rec, "first")))

	err := n.AddChild("a", traced(rec, "second"))
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
	assert.Equal(t, []string{"a"}, n.Children())

	require.NoError(t, n.Toggle("a"))
	assert.Equal(t, []string{"init:first", "enter:first"}, rec.Lines())
}

func TestToggle_UnknownChild(t *testing.T) {
	n := state.New(nil)
	err := n.Toggle("nope")
	assert.ErrorIs(t, err, domain.ErrUnknownChild)
}

func TestToggle_ExitCompletesBeforeEnter(t *testing.T) {
	rec := &testutils.Recorder{}
	root := state.NewRoot(nil)
	require.NoError(t, root.AddChild("lobby", composite(rec, "lobby", false, "waiting")))
	require.NoError(t, root.AddChild("play", traced(rec, "play")))
	require.NoError(t, root.Start())
	rec.Reset()

	require.NoError(t, root.Toggle("play"))
	assert.Equal(t, []string{"exit:waiting", "exit:lobby", "init:play", "enter:play"}, rec.Lines())
}

func TestAdvance_ExhaustedCallbackRedirect(t *testing.T) {
	rec := &testutils.Recorder{}
	root := state.NewRoot(nil)
	require.NoError(t, root.AddChild("round", func(p *state.Node) *state.Node {
		n := state.New(p)
		_ = n.AddChild("a", traced(rec, "a"))
		_ = n.AddChild("b", traced(rec, "b"))
		n.OnExhausted(func() error {
			rec.Add("exhausted", "round")
			return n.Toggle("a")
		})
		return n
	}))
	require.NoError(t, root.AddChild("results", traced(rec, "results")))
	require.NoError(t, root.Start())

	round := root.Active()
	require.NoError(t, round.Advance())
	rec.Reset()

	require.NoError(t, round.Advance())

	assert.Equal(t, "round", root.ActiveName(), "the cascade must not reach the parent")
	assert.Equal(t, "a", round.ActiveName())
	assert.Equal(t, []string{"exhausted:round", "exit:b", "init:a", "enter:a"}, rec.Lines())
}

func TestToggle_ExitCallbackRedirect(t *testing.T) {
	rec := &testutils.Recorder{}
	root := state.NewRoot(nil)
	require.NoError(t, root.AddChild("a", func(p *state.Node) *state.Node {
		return state.New(p).OnExit(func() error {
			rec.Add("exit", "a")
			return p.Toggle("c")
		})
	}))
	require.NoError(t, root.AddChild("b", traced(rec, "b")))
	require.NoError(t, root.AddChild("c", traced(rec, "c")))
	require.NoError(t, root.Start())
	rec.Reset()

	require.NoError(t, root.Advance())

	assert.Equal(t, "c", root.ActiveName())
	assert.Equal(t, []string{"exit:a", "init:c", "enter:c"}, rec.Lines())
	assert.True(t, root.Active().IsRunning())
}

func TestAdvance_ExitCallbackAdvancesOnce(t *testing.T) {
	rec := &testutils.Recorder{}
	root := state.NewRoot(nil)
	require.NoError(t, root.AddChild("a", func(p *state.Node) *state.Node {
		return state.New(p).OnExit(func() error {
			rec.Add("exit", "a")
			return p.Advance()
		})
	}))
	require.NoError(t, root.AddChild("b", traced(rec, "b")))
	require.NoError(t, root.AddChild("c", traced(rec, "c")))
	require.NoError(t, root.Start())
	rec.Reset()

	require.NoError(t, root.Advance())

	assert.Equal(t, "b", root.ActiveName())
	assert.Equal(t, []string{"exit:a", "init:b", "enter:b"}, rec.Lines())
}

func TestAdvance_ExitCallbackOnLastChildStopsCascade(t *testing.T) {
	rec := &testutils.Recorder{}
	root := state.NewRoot(nil)
	require.NoError(t, root.AddChild("round", func(p *state.Node) *state.Node {
		n := state.New(p).OnExit(rec.Hook("exit", "round"))
		_ = n.AddChild("a", traced(rec, "a"))
		_ = n.AddChild("b", func(p *state.Node) *state.Node {
			return state.New(p).OnExit(func() error {
				rec.Add("exit", "b")
				return p.Toggle("a")
			})
		})
		return n
	}))
	require.NoError(t, root.AddChild("results", traced(rec, "results")))
	require.NoError(t, root.Start())

	round := root.Active()
	require.NoError(t, round.Advance())
	rec.Reset()

	require.NoError(t, round.Advance())

	assert.Equal(t, "round", root.ActiveName(), "the cascade must not reach the parent")
	assert.Equal(t, "a", round.ActiveName())
	assert.Equal(t, []string{"exit:b", "init:a", "enter:a"}, rec.Lines())
}

func TestToggle_EnterCallbackAdvances(t *testing.T) {
	rec := &testutils.Recorder{}
	root := state.NewRoot(nil)
	require.NoError(t, root.AddChild("a", traced(rec, "a")))
	require.NoError(t, root.AddChild("b", func(p *state.Node) *state.Node {
		return state.New(p).
			OnInit(rec.Hook("init", "b")).
			OnEnter(rec.Hook("enter", "b")).
			OnEnter(p.Advance).
			OnExit(rec.Hook("exit", "b"))
	}))
	require.NoError(t, root.AddChild("c", traced(rec, "c")))
	require.NoError(t, root.Start())
	rec.Reset()

	require.NoError(t, root.Advance())

	assert.Equal(t, "c", root.ActiveName())
	assert.Equal(t, []string{"exit:a", "init:b", "enter:b", "exit:b", "init:c", "enter:c"}, rec.Lines())
}

func TestTick_ChildrenBeforeParent(t *testing.T) {
	rec := &testutils.Recorder{}
	root := state.NewRoot(nil)
	root.OnTick(rec.Hook("tick", "root"))
	require.NoError(t, root.AddChild("round", func(p *state.Node) *state.Node {
		n := state.New(p).OnTick(rec.Hook("tick", "round"))
		_ = n.AddChild("play", func(p *state.Node) *state.Node {
			return state.New(p).OnTick(rec.Hook("tick", "play"))
		})
		return n
	}))
	require.NoError(t, root.Start())

	require.NoError(t, root.Tick())
	assert.Equal(t, []string{"tick:play", "tick:round", "tick:root"}, rec.Lines())
}

func TestCallbacks_FailuresAreIsolated(t *testing.T) {
	var failures []*domain.FailureEvent
	root := state.NewRoot(nil, state.WithLifecycleHooks(domain.LifecycleHooks{
		OnCallbackFailed: func(e *domain.FailureEvent) { failures = append(failures, e) },
	}))

	ran := 0
	require.NoError(t, root.AddChild("play", func(p *state.Node) *state.Node {
		return state.New(p).
			OnEnter(func() error { ran++; return nil }).
			OnEnter(func() error { return errors.New("boom") }).
			OnEnter(func() error { panic("kaboom") }).
			OnEnter(func() error { ran++; return nil })
	}))
	require.NoError(t, root.Start())

	assert.Equal(t, "play", root.ActiveName(), "a failing callback must not abort the transition")
	assert.Equal(t, 2, ran)
	require.Len(t, failures, 2)
	assert.Equal(t, domain.CallbackEnter, failures[0].Kind)
	assert.Equal(t, "root/play", failures[0].Path)

	var cf *domain.CallbackFailure
	require.ErrorAs(t, failures[1].Err, &cf)
	assert.Contains(t, cf.Err.Error(), "kaboom")
}

func TestIsRunningAndRunningName(t *testing.T) {
	root := state.NewRoot(nil)
	require.NoError(t, root.AddChild("a", func(p *state.Node) *state.Node { return state.New(p) }))
	require.NoError(t, root.AddChild("b", func(p *state.Node) *state.Node { return state.New(p) }))
	require.NoError(t, root.Start())

	assert.True(t, root.IsRunning())
	_, ok := root.RunningName()
	assert.False(t, ok)

	a := root.Active()
	name, ok := a.RunningName()
	assert.True(t, ok)
	assert.Equal(t, "a", name)
	assert.Equal(t, "root/a", a.Path())

	require.NoError(t, root.Advance())
	assert.False(t, a.IsRunning())
	_, ok = a.RunningName()
	assert.False(t, ok)
}

func TestSnapshot_ActivePath(t *testing.T) {
	rec := &testutils.Recorder{}
	root := state.NewRoot(nil, state.WithName("match"))
	require.NoError(t, root.AddChild("round", composite(rec, "round", true, "countdown", "play")))
	require.NoError(t, root.Start())

	snap := root.Snapshot()
	assert.Equal(t, "match", snap.Name)
	assert.Equal(t, []string{"round", "countdown"}, snap.ActivePath())
	assert.True(t, snap.Active.Loop)
	assert.Equal(t, []string{"countdown", "play"}, snap.Active.Children)
	assert.Equal(t, "countdown", snap.Leaf().Name)
}

func TestStop_ExitsWholeTree(t *testing.T) {
	rec := &testutils.Recorder{}
	root := state.NewRoot(nil)
	require.NoError(t, root.AddChild("round", composite(rec, "round", false, "play")))
	require.NoError(t, root.Start())
	rec.Reset()

	root.Stop()
	root.Stop()

	assert.Equal(t, []string{"exit:play", "exit:round"}, rec.Lines())
	assert.True(t, root.Stopped())
	assert.Nil(t, root.Active())
}

// TestInvariants_RandomOperations drives a tree with random operations and
// checks the structural invariants after each step.
func TestInvariants_RandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	rec := &testutils.Recorder{}
	root := state.NewRoot(nil)
	for _, name := range []string{"a", "b", "c", "d"} {
		require.NoError(t, root.AddChild(name, composite(rec, name, rng.Intn(2) == 0, "x", "y")))
	}
	require.NoError(t, root.Start())

	var check func(n *state.Node)
	check = func(n *state.Node) {
		if n.ActiveName() == "" {
			assert.Nil(t, n.Active())
			return
		}
		require.NotNil(t, n.Active())
		assert.True(t, slices.Contains(n.Children(), n.ActiveName()))
		assert.Same(t, n, n.Active().Parent())
		check(n.Active())
	}

	for i := 0; i < 500; i++ {
		target := root.Node
		if a := root.Active(); a != nil && rng.Intn(2) == 0 {
			target = a
		}
		names := target.Children()
		switch op := rng.Intn(4); {
		case op == 0:
			_ = target.Advance()
		case op == 1 && len(names) > 0:
			_ = target.Toggle(names[rng.Intn(len(names))])
		case op == 2:
			_ = root.Tick()
		default:
			_ = root.Advance()
		}
		check(root.Node)
	}
}

func TestFinish_SkipsRemainingSiblings(t *testing.T) {
	rec := &testutils.Recorder{}
	root := state.NewRoot(nil)
	require.NoError(t, root.AddChild("round", composite(rec, "round", true, "a", "b", "c")))
	require.NoError(t, root.AddChild("results", traced(rec, "results")))
	require.NoError(t, root.Start())

	round := root.Active()
	rec.Reset()
	require.NoError(t, round.Finish())

	assert.Equal(t, "results", root.ActiveName())
	assert.Equal(t, []string{"exit:a", "exhausted:round", "exit:round", "init:results", "enter:results"}, rec.Lines())
}

func TestFinish_RootEndsSession(t *testing.T) {
	over := 0
	root := state.NewRoot(ownerFunc(func() { over++ }))
	require.NoError(t, root.AddChild("lobby", func(p *state.Node) *state.Node { return state.New(p) }))
	require.NoError(t, root.Start())

	require.NoError(t, root.Finish())

	assert.Equal(t, 1, over)
	assert.Nil(t, root.Active())
}
