package runtime

import (
	"image/color"
	"log/slog"
	"math"
	"sort"

	"github.com/aretw0/actvis/internal/logging"
	"github.com/aretw0/actvis/pkg/domain"
	"github.com/aretw0/actvis/pkg/ports"
	"github.com/aretw0/actvis/pkg/viewport"
)

const (
	edgeWidth     = 1.5
	strokeWidth   = 1
	gridWidth     = 1
	emphasisWidth = 3
)

// DrawStats summarises one frame.
type DrawStats struct {
	GridLines  int `json:"grid_lines"`
	Segments   int `json:"segments"`
	Dropped    int `json:"dropped"`
	Highlights int `json:"highlights"`
	Shapes     int `json:"shapes"`
}

// Renderer paints a View onto a Canvas. It never modifies the view.
type Renderer struct {
	geom    viewport.Geometry
	palette Palette
	logger  *slog.Logger
}

// NewRenderer creates a renderer. A nil logger discards diagnostics.
func NewRenderer(geom viewport.Geometry, palette Palette, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Renderer{geom: geom.WithDefaults(), palette: palette, logger: logger}
}

// Palette returns the colours in use.
func (r *Renderer) Palette() Palette { return r.palette }

// Draw paints, in order: background, grid, edges, container highlights,
// node shapes, labels and the hovered-container emphasis.
func (r *Renderer) Draw(cv ports.Canvas, v View) DrawStats {
	var stats DrawStats
	cv.Clear(r.palette.Background)

	if v.Scene.Len() == 0 {
		return stats
	}

	stats.GridLines = r.drawGrid(cv, v)
	stats.Segments, stats.Dropped = r.drawEdges(cv, v)
	stats.Highlights = r.drawHighlights(cv, v)
	stats.Shapes = r.drawNodes(cv, v)
	r.drawEmphasis(cv, v)
	return stats
}

func (r *Renderer) drawGrid(cv ports.Canvas, v View) int {
	if v.Width <= 0 || v.Height <= 0 {
		return 0
	}
	cell := r.geom.Cell
	visible := v.Transform.Visible(v.Width, v.Height)

	lines := 0
	for k := math.Ceil(visible.X / cell); k*cell <= visible.X+visible.W; k++ {
		x, _ := v.Transform.ToScreen(k*cell, 0)
		cv.Line(x, 0, x, v.Height, r.palette.Grid, gridWidth)
		lines++
	}
	for k := math.Ceil(visible.Y / cell); k*cell <= visible.Y+visible.H; k++ {
		_, y := v.Transform.ToScreen(0, k*cell)
		cv.Line(0, y, v.Width, y, r.palette.Grid, gridWidth)
		lines++
	}
	return lines
}

func (r *Renderer) drawEdges(cv ports.Canvas, v View) (int, int) {
	segments, dropped := v.Scene.Resolve()
	for _, d := range dropped {
		r.logger.Debug("skipping dangling edge", "from", d.Edge.From, "to", d.Edge.To)
	}
	for _, s := range segments {
		x1, y1 := v.Transform.ToScreen(r.geom.Center(s.From.GX, s.From.GY))
		x2, y2 := v.Transform.ToScreen(r.geom.Center(s.To.GX, s.To.GY))
		cv.Line(x1, y1, x2, y2, r.palette.Edge, edgeWidth)
	}
	return len(segments), len(dropped)
}

// drawHighlights fills container bboxes, larger areas first so nested boxes
// stay visible on top of their parents.
func (r *Renderer) drawHighlights(cv ports.Canvas, v View) int {
	var boxes []domain.Node
	for _, n := range v.Scene.Nodes() {
		if n.IsContainer() && n.BBox != nil && !n.BBox.Degenerate() {
			boxes = append(boxes, n)
		}
	}
	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].BBox.Area() > boxes[j].BBox.Area()
	})

	for _, n := range boxes {
		rect := v.Transform.RectToScreen(r.boxRect(n.BBox))
		tint := r.palette.Highlight(n.Type)
		cv.FillRect(rect.X, rect.Y, rect.W, rect.H, tint)
		cv.StrokeRect(rect.X, rect.Y, rect.W, rect.H, r.palette.Fill(n.Type), strokeWidth)
	}
	return len(boxes)
}

func (r *Renderer) drawNodes(cv ports.Canvas, v View) int {
	scale := v.Transform.Scale
	radius := r.geom.CornerRadius * scale
	fontSize := r.geom.NodeHeight * r.geom.Cell * scale / 2

	var visible []domain.Node
	for _, n := range v.Scene.Nodes() {
		if !v.Scene.Hidden(n.ID) {
			visible = append(visible, n)
		}
	}

	for _, n := range visible {
		rect := v.Transform.RectToScreen(r.geom.NodeRect(n.GX, n.GY))
		cv.RoundRect(rect.X, rect.Y, rect.W, rect.H, radius, r.fill(n, v), r.palette.Stroke, strokeWidth)
	}
	for _, n := range visible {
		x, y := v.Transform.ToScreen(r.geom.Center(n.GX, n.GY))
		cv.Text(n.Label(), x, y, fontSize, r.palette.Label)
	}
	return len(visible)
}

func (r *Renderer) fill(n domain.Node, v View) color.Color {
	switch {
	case v.Selected != "" && n.ID == v.Selected:
		return r.palette.Selected
	case v.Hover != "" && n.ID == v.Hover:
		return r.palette.Hover
	}
	return r.palette.Fill(n.Type)
}

func (r *Renderer) drawEmphasis(cv ports.Canvas, v View) {
	if v.Emphasis == "" {
		return
	}
	n, ok := v.Scene.Lookup(v.Emphasis)
	if !ok || n.BBox == nil || n.BBox.Degenerate() {
		return
	}
	rect := v.Transform.RectToScreen(r.boxRect(n.BBox))
	cv.StrokeRect(rect.X, rect.Y, rect.W, rect.H, r.palette.Emphasis, emphasisWidth)
}

func (r *Renderer) boxRect(b *domain.BBox) viewport.Rect {
	return r.geom.BoxRect(b.MinGX, b.MaxGX, b.MinGY, b.MaxGY)
}
