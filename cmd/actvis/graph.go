package main

import (
	"fmt"

	"github.com/aretw0/actvis/internal/presentation/graph"
	"github.com/aretw0/actvis/pkg/scene"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the activity graph as Mermaid",
	Long:  `Loads a graph and outputs a Mermaid diagram (graph TD) of its nodes and drawable edges.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		eng := app.NewEngine()
		if _, err := app.Load(cmd.Context(), eng, graphInput(cmd)); err != nil {
			return err
		}

		// Generate and print Mermaid graph
		output := graph.GenerateMermaid(scene.NewSnapshot(eng.Snapshot()), nil)
		fmt.Fprint(cmd.OutOrStdout(), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	addGraphFlags(graphCmd)
}
