package cli

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/gamestate/internal/config"
	"github.com/aretw0/gamestate/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDefinition(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "phases.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseEventArgs(t *testing.T) {
	assert.Nil(t, ParseEventArgs(nil))
	assert.Equal(t,
		[]any{float64(3), "red", true, map[string]any{"x": float64(1)}, "not json{"},
		ParseEventArgs([]string{"3", "red", "true", `{"x":1}`, "not json{"}),
	)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Config{
		TickRate:    10 * time.Millisecond,
		QueueSize:   8,
		HTTPAddr:    ":8080",
		RedisPrefix: "gs:",
		LogLevel:    "warn",
		LogFormat:   "json",
	}
	opts := OptionsFromConfig("match.yaml", cfg)
	assert.Equal(t, "match.yaml", opts.Path)
	assert.Equal(t, 10*time.Millisecond, opts.TickRate)
	assert.Equal(t, 8, opts.QueueSize)
	assert.Equal(t, ":8080", opts.HTTPAddr)
	assert.Equal(t, "gs:", opts.RedisPrefix)
	assert.True(t, opts.Signals)
}

func TestCreateLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := createLogger(RunOptions{LogLevel: "warn"}, &buf)
	require.NoError(t, err)
	assert.False(t, logger.Enabled(t.Context(), slog.LevelInfo))

	logger, err = createLogger(RunOptions{LogLevel: "warn", Debug: true}, &buf)
	require.NoError(t, err)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))

	_, err = createLogger(RunOptions{LogLevel: "loud"}, &buf)
	assert.Error(t, err)
}

func TestLoadDefinition(t *testing.T) {
	path := writeDefinition(t, `
name: quick
phases:
  - name: lobby
  - name: play
    duration: 1s
`)
	def, err := LoadDefinition(path)
	require.NoError(t, err)
	assert.Equal(t, "quick", def.RootName())

	path = writeDefinition(t, `
name: broken
phases:
  - name: lobby
    on_enter: [teleport]
`)
	_, err = LoadDefinition(path)
	assert.ErrorIs(t, err, dsl.ErrInvalidDefinition)

	_, err = LoadDefinition(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
