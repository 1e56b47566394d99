package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/actvis/internal/presentation/tui"
	"github.com/aretw0/actvis/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoPanel_PlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := tui.NewInfoPanel(&buf)

	listener := p.Listener()
	listener(domain.Selection{ID: "2", Name: "fetch", Type: domain.NodeTypeAtomic})
	listener(domain.Selection{})

	assert.Equal(t, "Node: fetch, Type: atomic\nClick a node to see info\n", buf.String())
}

func TestMarkdown(t *testing.T) {
	md := tui.Markdown(domain.Selection{ID: "7", Name: "fork", Type: domain.NodeTypeParallel})
	assert.Contains(t, md, "## fork")
	assert.Contains(t, md, "`parallel`")
	assert.Contains(t, md, "`7`")

	assert.Contains(t, tui.Markdown(domain.Selection{}), domain.SelectionPrompt)
}

func TestRenderer(t *testing.T) {
	render := tui.NewRenderer(40)
	out, err := render(tui.Markdown(domain.Selection{ID: "1", Name: "beep", Type: domain.NodeTypeAtomic}))
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "beep"))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Greater(t, strings.Count(buf.String(), "\n"), 5)
}
