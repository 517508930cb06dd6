package main

import (
	"fmt"
	"os"

	"github.com/aretw0/gamestate/internal/cli"
	"github.com/aretw0/gamestate/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Export the phase tree visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the phase tree: nested phases, order, loops, timers and toggles.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		def, err := cli.LoadDefinition(args[0])
		if err != nil {
			fmt.Printf("Error loading definition: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(graph.GenerateMermaid(def, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
