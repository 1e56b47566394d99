package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/actvis"
	"github.com/aretw0/actvis/pkg/adapters/raster"
	"github.com/aretw0/actvis/pkg/adapters/recorder"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a graph to a PNG or a display list",
	Long: `Loads a graph, fits it to the canvas and writes one frame: a PNG image, or
with --format json the list of draw operations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		width, _ := cmd.Flags().GetFloat64("width")
		height, _ := cmd.Flags().GetFloat64("height")
		out, _ := cmd.Flags().GetString("out")
		format, _ := cmd.Flags().GetString("format")

		var sized []actvis.Option
		if width > 0 || height > 0 {
			w, h := app.Config.Canvas.Width, app.Config.Canvas.Height
			if width > 0 {
				w = width
			}
			if height > 0 {
				h = height
			}
			sized = append(sized, actvis.WithCanvasSize(w, h))
		}
		eng := app.NewEngine(sized...)

		summary, err := app.Load(cmd.Context(), eng, graphInput(cmd))
		if err != nil {
			return err
		}
		w, h := eng.Size()

		switch format {
		case "png":
			cv, err := raster.New(int(w), int(h))
			if err != nil {
				return err
			}
			eng.Draw(cv)
			if out == "" || out == "-" {
				return cv.EncodePNG(cmd.OutOrStdout())
			}
			if err := cv.SavePNG(out); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
		case "json":
			cv := recorder.New()
			eng.Draw(cv)
			data, err := json.MarshalIndent(cv.Frame(w, h), "", "  ")
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
		default:
			return fmt.Errorf("unknown format %q: use png or json", format)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "rendered %d nodes, %d edges (%d dropped) to %s\n",
			summary.Nodes, summary.Edges, summary.Dropped, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addGraphFlags(renderCmd)
	renderCmd.Flags().StringP("out", "o", "-", "Output path ('-' for stdout)")
	renderCmd.Flags().String("format", "png", "Output format: png or json")
	renderCmd.Flags().Float64("width", 0, "Canvas width (default from config)")
	renderCmd.Flags().Float64("height", 0, "Canvas height (default from config)")
}
