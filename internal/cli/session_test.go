package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(path string) RunOptions {
	return RunOptions{
		Path:      path,
		TickRate:  2 * time.Millisecond,
		QueueSize: 16,
		LogLevel:  "error",
	}
}

func TestRunSession_JSON(t *testing.T) {
	path := writeDefinition(t, `
name: quick
phases:
  - name: warmup
    duration: 10ms
  - name: play
    duration: 10ms
`)
	opts := testOptions(path)
	opts.JSON = true

	var out, errOut bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, RunSession(ctx, opts, Streams{Out: &out, Err: &errOut}))
	require.NoError(t, ctx.Err(), "session did not finish on its own")

	var paths []string
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var snap domain.Snapshot
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &snap))
		paths = append(paths, strings.Join(snap.ActivePath(), "/"))
	}
	require.GreaterOrEqual(t, len(paths), 2)
	assert.Equal(t, "warmup", paths[0])
	assert.Contains(t, paths, "play")
	assert.NotContains(t, out.String(), ">>>")
}

func TestRunSession_EventsFromStdin(t *testing.T) {
	path := writeDefinition(t, `
name: duel
phases:
  - name: lobby
    on:
      - event: engine:Ready
        do: advance
  - name: play
    on:
      - event: engine:Winner
        do:
          - do: announce
            with: {message: "we have a winner"}
          - do: finish
`)
	opts := testOptions(path)
	opts.Stdin = true
	in := strings.NewReader("{\"event\":\"engine:Ready\"}\nnot an event\n{\"event\":\"engine:Winner\",\"args\":[\"p1\"]}\n")

	var out, errOut bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, RunSession(ctx, opts, Streams{In: in, Out: &out, Err: &errOut}))
	require.NoError(t, ctx.Err(), "session did not finish on its own")

	text := out.String()
	assert.Contains(t, text, "Running 'duel' (2 phases)")
	assert.Contains(t, text, "[duel/play] we have a winner")
	assert.Contains(t, text, "Session over after")
}

func TestRunSession_Cancelled(t *testing.T) {
	path := writeDefinition(t, `
name: idle
phases:
  - name: lobby
`)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	require.NoError(t, RunSession(ctx, testOptions(path), Streams{Out: &out, Err: &out}))
	assert.Contains(t, out.String(), "Session stopped after")
}

func TestRunSession_InvalidDefinition(t *testing.T) {
	var out bytes.Buffer
	err := RunSession(context.Background(), testOptions("does-not-exist.yaml"), Streams{Out: &out, Err: &out})
	assert.Error(t, err)
}
