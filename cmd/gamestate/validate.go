package main

import (
	"fmt"
	"os"

	"github.com/aretw0/gamestate/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a phase tree for consistency",
	Long:  `Reports duplicate or empty names, invalid durations and event keys, and actions that are not built in.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		def, err := cli.LoadDefinition(args[0])
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Definition '%s' is valid! ✅ (%d phases)\n", def.RootName(), def.Count())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
