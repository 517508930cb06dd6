/*
Package gamestate sequences the phases of a live session (lobby, countdown,
play, results) with a hierarchical, tick-driven state machine.

A session owns a tree of states rooted at a state.Root. Every state may have
ordered children, of which at most one is active; the host ticks the root at a
fixed rate and delivers events, and both travel down the active path only.
Timed states advance their parent when their deadline passes, and when the
root runs out of phases the session is over.

# Usage

The tree can come from a YAML definition (see package dsl) or be built in Go:

	sess, err := gamestate.New(
		gamestate.WithDefinitionFile("match.yaml"),
		gamestate.WithLogger(logger),
	)
	if err != nil {
		log.Fatal(err)
	}

	r := runner.New(sess)
	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}

For manual control, call Start, Tick and Dispatch from a single goroutine:

	_ = sess.Start()
	for !sess.Over() {
		_ = sess.Tick()
	}

Hosts in other goroutines never touch the tree; they queue events through
the session's EventSink (Enqueue), which the runner drains on each tick.
*/
package gamestate
