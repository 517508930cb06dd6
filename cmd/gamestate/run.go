package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/gamestate/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a phase tree until the session is over",
	Long: `Loads a YAML phase tree and ticks it until the root is exhausted or the process
receives SIGINT/SIGTERM. Events can be fed over HTTP (--http), Redis (--redis)
or standard input (--stdin, one JSON event per line).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := cli.OptionsFromConfig(args[0], loadConfig())
		flags := cmd.Flags()

		if flags.Changed("tick") {
			opts.TickRate, _ = flags.GetDuration("tick")
		}
		if flags.Changed("queue") {
			opts.QueueSize, _ = flags.GetInt("queue")
		}
		if flags.Changed("http") {
			opts.HTTPAddr, _ = flags.GetString("http")
		}
		if flags.Changed("redis") {
			opts.RedisAddr, _ = flags.GetString("redis")
		}
		if flags.Changed("redis-prefix") {
			opts.RedisPrefix, _ = flags.GetString("redis-prefix")
		}
		opts.Debug, _ = flags.GetBool("debug")
		opts.JSON, _ = flags.GetBool("json")
		opts.Stdin, _ = flags.GetBool("stdin")
		watchMode, _ := flags.GetBool("watch")

		streams := cli.Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}

		var err error
		if watchMode {
			err = cli.RunWatch(context.Background(), opts, streams)
		} else {
			err = cli.RunSession(context.Background(), opts, streams)
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Duration("tick", 0, "Interval between ticks (default from GAMESTATE_TICK_RATE, 50ms)")
	runCmd.Flags().Int("queue", 0, "Capacity of the event queue (default from GAMESTATE_QUEUE_SIZE, 256)")
	runCmd.Flags().String("http", "", "Serve the HTTP API on this address, e.g. :8080")
	runCmd.Flags().String("redis", "", "Subscribe to events and mirror state on this Redis address")
	runCmd.Flags().String("redis-prefix", "", "Redis key and channel prefix (default gamestate:)")
	runCmd.Flags().Bool("debug", false, "Enable debug logging on stderr")
	runCmd.Flags().Bool("json", false, "Write a JSON snapshot to stdout on every transition")
	runCmd.Flags().Bool("stdin", false, "Read JSON events from standard input")
	runCmd.Flags().BoolP("watch", "w", false, "Restart the session when the file changes")
}
