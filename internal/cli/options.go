package cli

import (
	"io"
	"time"

	"github.com/aretw0/gamestate/internal/config"
)

// RunOptions configures a session started from the command line.
type RunOptions struct {
	Path        string
	TickRate    time.Duration
	QueueSize   int
	HTTPAddr    string
	RedisAddr   string
	RedisPrefix string
	LogLevel    string
	LogFormat   string
	Debug       bool
	JSON        bool
	Stdin       bool
	// Signals lets the runner cancel itself on SIGINT/SIGTERM.
	Signals bool
}

// OptionsFromConfig seeds RunOptions with environment settings.
func OptionsFromConfig(path string, cfg config.Config) RunOptions {
	return RunOptions{
		Path:        path,
		TickRate:    cfg.TickRate,
		QueueSize:   cfg.QueueSize,
		HTTPAddr:    cfg.HTTPAddr,
		RedisAddr:   cfg.RedisAddr,
		RedisPrefix: cfg.RedisPrefix,
		LogLevel:    cfg.LogLevel,
		LogFormat:   cfg.LogFormat,
		Signals:     true,
	}
}

// Streams are the standard streams of a command.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}
