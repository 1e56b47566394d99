package main

import (
	"context"

	"github.com/aretw0/actvis/internal/cli"
	"github.com/aretw0/actvis/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the viewport HTTP server",
	Long: `Starts the viewport API: one engine per view, fed with input events over
JSON and drawn as display lists or PNG frames. Selection and redraw
notifications stream over SSE.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		port, _ := cmd.Flags().GetInt("port")
		snapshot, _ := cmd.Flags().GetString("snapshot")
		idle, _ := cmd.Flags().GetDuration("idle-timeout")

		tui.PrintBanner(cmd.ErrOrStderr())

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		err = app.RunServe(sigCtx, cli.ServeOptions{
			Port:        port,
			Snapshot:    snapshot,
			IdleTimeout: idle,
		})
		if sig := sigCtx.Signal(); sig != nil {
			cli.PrintSystemMessage(cmd.ErrOrStderr(), "Stopped by %v", sig)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (default from config)")
	serveCmd.Flags().String("snapshot", "", "Graph snapshot loaded into every view and hot reloaded on change")
	serveCmd.Flags().Duration("idle-timeout", 0, "Expire views unused for this long (0 keeps them)")
}
