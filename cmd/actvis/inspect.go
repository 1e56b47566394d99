package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/actvis/internal/presentation/tui"
	"github.com/aretw0/actvis/pkg/domain"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the fitted view and what a click would select",
	Long: `Loads a graph, fits it to the canvas and prints the view state. With --at X,Y
it clicks that canvas point and shows the selected node in the info panel.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		panel := tui.NewInfoPanel(cmd.OutOrStdout())
		eng := app.NewEngine()
		if _, err := app.Load(cmd.Context(), eng, graphInput(cmd)); err != nil {
			return err
		}

		at, _ := cmd.Flags().GetFloat64Slice("at")
		if len(at) > 0 {
			if len(at) != 2 {
				return fmt.Errorf("--at takes X,Y")
			}
			eng.HandleInput(domain.PointerDown{X: at[0], Y: at[1]})
			eng.HandleInput(domain.PointerUp{X: at[0], Y: at[1]})
			return panel.Show(eng.State().Selection)
		}

		data, err := json.MarshalIndent(eng.State(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	addGraphFlags(inspectCmd)
	inspectCmd.Flags().Float64Slice("at", nil, "Canvas point to click, as X,Y")
}
