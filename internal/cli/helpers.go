package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/gamestate/internal/logging"
	"github.com/aretw0/gamestate/pkg/dsl"
	"github.com/aretw0/gamestate/pkg/registry"
)

// createLogger configures the application logger on w (stderr in practice,
// to keep it apart from the announcer and JSON output on stdout).
// --debug wins over the configured level.
func createLogger(opts RunOptions, w io.Writer) (*slog.Logger, error) {
	level := slog.LevelDebug
	if !opts.Debug {
		var err error
		level, err = logging.ParseLevel(opts.LogLevel)
		if err != nil {
			return nil, err
		}
	}
	format := logging.FormatText
	if opts.LogFormat == string(logging.FormatJSON) {
		format = logging.FormatJSON
	}
	return logging.NewWithWriter(w, level, format), nil
}

// LoadDefinition reads a phase tree and validates it against the built-in
// actions.
func LoadDefinition(path string) (*dsl.Definition, error) {
	def, err := dsl.Load(path)
	if err != nil {
		return nil, err
	}
	if err := dsl.Validate(def, registry.Default()); err != nil {
		return nil, err
	}
	return def, nil
}

// ParseEventArgs turns command line words into event arguments.
// Words that are valid JSON (numbers, booleans, objects) are decoded,
// anything else is kept as a string.
func ParseEventArgs(words []string) []any {
	if len(words) == 0 {
		return nil
	}
	args := make([]any, 0, len(words))
	for _, w := range words {
		var v any
		if err := json.Unmarshal([]byte(w), &v); err != nil {
			v = w
		}
		args = append(args, v)
	}
	return args
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
