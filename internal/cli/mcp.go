package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/gamestate/pkg/adapters/mcp"
	"github.com/aretw0/gamestate/pkg/runner"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// RunMCP runs the definition and serves it to agents over MCP. The stdio
// transport owns stdout, so logs and announcements go to stderr.
func RunMCP(ctx context.Context, opts RunOptions, streams Streams, transport, addr string) error {
	if opts.Signals {
		sm := runner.NewSignalManager(ctx)
		defer sm.Stop()
		ctx = sm.Context()
		opts.Signals = false
	}

	h, err := newHost(opts, streams, true)
	if err != nil {
		return err
	}
	srv := mcp.NewServer(h.runner, h.def, mcp.WithLogger(h.logger))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runErr := make(chan error, 1)
	go func() {
		runErr <- h.runner.Run(ctx)
	}()

	switch transport {
	case TransportStdio:
		h.logger.Info("Starting MCP Server (Stdio)")
		err = srv.Listen(ctx, streams.In, streams.Out)
	case TransportSSE:
		err = srv.ServeSSE(ctx, addr)
	default:
		err = fmt.Errorf("unknown transport: %s. Supported: %s, %s", transport, TransportStdio, TransportSSE)
	}

	cancel()
	if rerr := <-runErr; err == nil {
		err = rerr
	}
	return err
}
