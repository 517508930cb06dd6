/*
Package dsl describes phase trees as data and installs them into a state root.

A tree can be written in YAML or assembled in Go with the fluent Builder.
Both produce a Definition, which is validated against an action registry and
compiled into lazy state factories by Install.

Example YAML:

	name: match
	phases:
	  - name: lobby
	    on:
	      - event: engine:PlayerReady
	        do: [advance]
	  - name: round
	    loop: true
	    phases:
	      - name: countdown
	        duration: 3
	        on_enter:
	          - do: announce
	            with: {message: "Get ready"}
	      - name: play
	        duration: 1m30s
	  - name: results

Example Go:

	b := dsl.New("match")
	b.Phase("lobby").On("engine:PlayerReady", "advance", nil)
	round := b.Phase("round").Loop()
	round.Phase("countdown").Timed(3 * time.Second)
	round.Phase("play").Timed(90 * time.Second)
	b.Phase("results")
	def, err := b.Build()
*/
package dsl
