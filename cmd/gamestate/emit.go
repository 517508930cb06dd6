package main

import (
	"fmt"
	"os"

	"github.com/aretw0/gamestate/internal/cli"
	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/spf13/cobra"
)

var emitCmd = &cobra.Command{
	Use:   "emit <namespace> <system> <event> [args...]",
	Short: "Publish an event to running sessions over Redis",
	Long: `Publishes an event on the Redis channel watched by 'gamestate run --redis'.
Arguments that parse as JSON are sent as JSON values, anything else as strings.`,
	Example: `  gamestate emit host engine MatchStart
  gamestate emit host self Goal p1 3`,
	Args: cobra.MinimumNArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		addr, prefix := cfg.RedisAddr, cfg.RedisPrefix
		if cmd.Flags().Changed("redis") || addr == "" {
			addr, _ = cmd.Flags().GetString("redis")
		}
		if cmd.Flags().Changed("redis-prefix") {
			prefix, _ = cmd.Flags().GetString("redis-prefix")
		}

		e, err := domain.Event{
			EventKey: domain.EventKey{Namespace: args[0], System: args[1], Name: args[2]},
			Args:     cli.ParseEventArgs(args[3:]),
		}.Normalize()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		n, err := cli.Emit(cmd.Context(), addr, prefix, e)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Published %s to %d subscriber(s)\n", e.String(), n)
	},
}

func init() {
	rootCmd.AddCommand(emitCmd)

	emitCmd.Flags().String("redis", "localhost:6379", "Redis address (default from GAMESTATE_REDIS_ADDR)")
	emitCmd.Flags().String("redis-prefix", "", "Redis channel prefix (default gamestate:)")
}
