package main

import (
	"fmt"
	"os"

	"github.com/aretw0/actvis/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "actvis",
	Short: "actvis is an interactive viewport for activity graphs",
	Long: `actvis draws the activity graphs produced by a graph service on a pannable,
zoomable canvas, and lets you hover and select their nodes.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default $ACTVIS_CONFIG or ./actvis.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("source", "", "Graph service base URL (overrides config)")
}

// newApp builds the shared application context from the global flags.
func newApp(cmd *cobra.Command) (*cli.App, error) {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	sourceURL, _ := cmd.Flags().GetString("source")
	return cli.NewApp(cli.Options{
		ConfigPath: configPath,
		Debug:      debug,
		SourceURL:  sourceURL,
	})
}

// addGraphFlags registers the flags naming where a graph comes from.
func addGraphFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Graph snapshot file (.json or .yaml)")
	cmd.Flags().StringP("text", "t", "", "Program text file to send to the graph service ('-' for stdin)")
	cmd.Flags().StringP("entry", "e", "", "Action to expand (with --text)")
	cmd.MarkFlagsMutuallyExclusive("file", "text")
}

func graphInput(cmd *cobra.Command) cli.GraphInput {
	f, _ := cmd.Flags().GetString("file")
	t, _ := cmd.Flags().GetString("text")
	e, _ := cmd.Flags().GetString("entry")
	return cli.GraphInput{File: f, TextFile: t, Entry: e}
}
