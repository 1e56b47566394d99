package runtime

import (
	"image/color"
	"testing"

	"github.com/aretw0/actvis/pkg/domain"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hexOf(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

func TestPalette_Defaults(t *testing.T) {
	p := DefaultPalette()
	assert.Equal(t, "#4a90e2", hexOf(p.Fill(domain.NodeTypeAtomic)))
	assert.Equal(t, "#ffec99", hexOf(p.Hover))
	assert.Equal(t, "#cccccc", hexOf(p.Fill("unknown")))
}

func TestPalette_Highlight(t *testing.T) {
	p := DefaultPalette()
	h, ok := p.Highlight(domain.NodeTypeParallel).(color.NRGBA)
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{R: 0x50, G: 0xe3, B: 0xc2, A: 38}, h)
}

func TestPalette_WithOverrides(t *testing.T) {
	base := DefaultPalette()
	p, err := base.WithOverrides(map[string]string{
		"hover":  "#000",
		"atomic": "#112233",
		"custom": "#abcdef",
	})
	require.NoError(t, err)

	assert.Equal(t, "#000000", hexOf(p.Hover))
	assert.Equal(t, "#112233", hexOf(p.Fill(domain.NodeTypeAtomic)))
	assert.Equal(t, "#abcdef", hexOf(p.Fill("custom")))
	assert.Equal(t, "#4a90e2", hexOf(base.Fill(domain.NodeTypeAtomic)), "base palette is untouched")

	_, err = base.WithOverrides(map[string]string{"edge": "blue"})
	assert.Error(t, err)
}
