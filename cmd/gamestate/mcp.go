package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/gamestate/internal/cli"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp <file>",
	Short: "Run a phase tree behind a Model Context Protocol (MCP) server",
	Long: `Runs the phase tree and exposes it as an MCP Server, so AI agents can read the
state, queue events and draw the graph.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := cli.OptionsFromConfig(args[0], loadConfig())
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		if cmd.Flags().Changed("tick") {
			opts.TickRate, _ = cmd.Flags().GetDuration("tick")
		}
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")

		// Logs go to stderr; stdout carries JSON-RPC in stdio mode.
		streams := cli.Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
		if err := cli.RunMCP(context.Background(), opts, streams, transport, addr); err != nil {
			fmt.Fprintf(os.Stderr, "MCP Server execution failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", cli.TransportStdio, "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", "localhost:8080", "Address to listen on (only for SSE)")
	mcpCmd.Flags().Duration("tick", 0, "Interval between ticks")
	mcpCmd.Flags().Bool("debug", false, "Enable debug logging on stderr")
}
