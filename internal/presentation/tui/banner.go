package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the actvis ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Green to brown, after the action and compound action node colours.
	lines := []struct {
		text, color string
	}{
		{"              _         _     ", "#417505"},
		{"   __ _  ___ | |___   _(_)___ ", "#5a6a12"},
		{"  / _` |/ __|| __\\ \\ / / / __|", "#72601e"},
		{" | (_| | (__ | |_ \\ V /| \\__ \\", "#8b572a"},
		{"  \\__,_|\\___| \\__| \\_/ |_|___/", "#9b9b9b"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
