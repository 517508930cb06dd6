/*
Package runner drives a gamestate session at a fixed tick rate.

The runner owns the goroutine that touches the state tree. Each tick it
delivers the events queued since the previous tick, ticks the root and
publishes a snapshot of the active path that other goroutines may read.
Event sources (HTTP, Redis, MCP, stdin) only call Enqueue.

# Usage

	r := runner.New(sess,
		runner.WithTickRate(50*time.Millisecond),
		runner.WithLogger(logger),
		runner.WithSignals(true),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
