package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var actionsCmd = &cobra.Command{
	Use:   "actions <program-file>",
	Short: "List the actions a program defines",
	Long:  `Asks the graph service for the action catalog of a program. Compound actions with an activity can be opened with 'render --entry'.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		text, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read program text: %w", err)
		}
		actions, err := app.NewEngine().ListActions(cmd.Context(), string(text))
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(actions)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tTYPE\tOPENS")
		for _, a := range actions {
			fmt.Fprintf(tw, "%s\t%s\t%v\n", a.Name, a.Type, a.IsCompound())
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(actionsCmd)
	actionsCmd.Flags().Bool("json", false, "Print the catalog as JSON")
}
