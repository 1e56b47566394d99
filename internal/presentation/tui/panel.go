package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/actvis/pkg/domain"
	"golang.org/x/term"
)

// InfoPanel shows the selected node. On a terminal it renders markdown
// through glamour; anywhere else it writes the one-line message.
type InfoPanel struct {
	out    io.Writer
	render func(string) (string, error)
}

// NewInfoPanel creates a panel writing to out.
func NewInfoPanel(out io.Writer) *InfoPanel {
	p := &InfoPanel{out: out}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		width, _, err := term.GetSize(int(f.Fd()))
		if err != nil {
			width = 0
		}
		p.render = NewRenderer(width)
	}
	return p
}

// Show writes sel to the panel. It matches domain.SelectionListener once
// the error is dropped, see Listener.
func (p *InfoPanel) Show(sel domain.Selection) error {
	if p.render != nil {
		out, err := p.render(Markdown(sel))
		if err == nil {
			_, err = io.WriteString(p.out, out)
			return err
		}
		// fall back to plain text
	}
	_, err := fmt.Fprintln(p.out, sel.Message())
	return err
}

// Listener adapts the panel to a selection listener.
func (p *InfoPanel) Listener() domain.SelectionListener {
	return func(sel domain.Selection) {
		_ = p.Show(sel)
	}
}

// Markdown formats a selection for the rich panel.
func Markdown(sel domain.Selection) string {
	if sel.IsEmpty() {
		return "_" + domain.SelectionPrompt + "_\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", sel.Name)
	fmt.Fprintf(&sb, "- **Type:** `%s`\n", sel.Type)
	fmt.Fprintf(&sb, "- **ID:** `%s`\n", sel.ID)
	return sb.String()
}
