package main

import (
	"fmt"
	"os"

	"github.com/aretw0/gamestate/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gamestate",
	Short: "gamestate sequences the phases of a live session",
	Long: `gamestate runs hierarchical, tick-driven phase trees (lobby, countdown, play, results)
described in YAML, and exposes them over HTTP, Redis and MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadConfig reads the environment or exits.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
