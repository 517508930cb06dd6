package main

import (
	"fmt"
	"os"

	"github.com/aretw0/gamestate/internal/cli"
	"github.com/aretw0/gamestate/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Describe a phase tree",
	Long:  `Prints a readable outline of the phase tree, styled when writing to a terminal.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		def, err := cli.LoadDefinition(args[0])
		if err != nil {
			fmt.Printf("Error loading definition: %v\n", err)
			os.Exit(1)
		}
		render := tui.NewRenderer(tui.IsTerminal(os.Stdout))
		out, err := render(tui.Summary(def))
		if err != nil {
			fmt.Printf("Error rendering summary: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
