package runtime

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/aretw0/actvis/pkg/domain"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette holds every colour the renderer uses.
type Palette struct {
	Types map[domain.NodeType]color.Color

	Fallback   color.Color
	Hover      color.Color
	Selected   color.Color
	Edge       color.Color
	Grid       color.Color
	Stroke     color.Color
	Background color.Color
	Label      color.Color
	Emphasis   color.Color

	// HighlightAlpha is the opacity of container bbox highlights, in [0, 1].
	HighlightAlpha float64
}

var defaultTypeColors = map[domain.NodeType]string{
	domain.NodeTypeAtomic:         "#4a90e2",
	domain.NodeTypeParallel:       "#50e3c2",
	domain.NodeTypeSelect:         "#f5a623",
	domain.NodeTypeRepeat:         "#bd10e0",
	domain.NodeTypeStart:          "#7ed321",
	domain.NodeTypeEnd:            "#d0021b",
	domain.NodeTypeMerge:          "#f8e71c",
	domain.NodeTypeSequence:       "#9b9b9b",
	domain.NodeTypeAction:         "#417505",
	domain.NodeTypeCompoundAction: "#8b572a",
}

// DefaultPalette returns the stock colours of the activity graph viewer.
func DefaultPalette() Palette {
	p := Palette{
		Types:          make(map[domain.NodeType]color.Color, len(defaultTypeColors)),
		Fallback:       mustHex("#cccccc"),
		Hover:          mustHex("#ffec99"),
		Selected:       mustHex("#ff8787"),
		Edge:           mustHex("#555555"),
		Grid:           mustHex("#eeeeee"),
		Stroke:         mustHex("#333333"),
		Background:     mustHex("#ffffff"),
		Label:          mustHex("#000000"),
		Emphasis:       mustHex("#333333"),
		HighlightAlpha: 0.15,
	}
	for t, hex := range defaultTypeColors {
		p.Types[t] = mustHex(hex)
	}
	return p
}

// WithOverrides returns a copy of p with colours replaced by key. Keys are node
// type names or one of fallback, hover, selected, edge, grid, stroke,
// background, label, emphasis. Values are hex strings (#rgb or #rrggbb).
func (p Palette) WithOverrides(overrides map[string]string) (Palette, error) {
	out := p
	out.Types = make(map[domain.NodeType]color.Color, len(p.Types))
	for t, c := range p.Types {
		out.Types[t] = c
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		c, err := colorful.Hex(overrides[key])
		if err != nil {
			return p, fmt.Errorf("palette %q: %w", key, err)
		}
		if slot := out.named(key); slot != nil {
			*slot = c
			continue
		}
		out.Types[domain.NodeType(key)] = c
	}
	return out, nil
}

func (p *Palette) named(key string) *color.Color {
	switch key {
	case "fallback":
		return &p.Fallback
	case "hover":
		return &p.Hover
	case "selected":
		return &p.Selected
	case "edge":
		return &p.Edge
	case "grid":
		return &p.Grid
	case "stroke":
		return &p.Stroke
	case "background":
		return &p.Background
	case "label":
		return &p.Label
	case "emphasis":
		return &p.Emphasis
	}
	return nil
}

// Fill is the shape colour of a node type.
func (p Palette) Fill(t domain.NodeType) color.Color {
	if c, ok := p.Types[t]; ok {
		return c
	}
	return p.Fallback
}

// Highlight is the translucent bbox tint of a container type.
func (p Palette) Highlight(t domain.NodeType) color.Color {
	c, ok := colorful.MakeColor(p.Fill(t))
	if !ok {
		return color.Transparent
	}
	r, g, b := c.RGB255()
	alpha := math.Max(0, math.Min(1, p.HighlightAlpha))
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)}
}

func mustHex(s string) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
