package viewport

import "math"

// Geometry holds the fixed constants of the grid and of the interaction model.
type Geometry struct {
	// Cell is the pixel size of one grid unit at scale 1.
	Cell float64 `yaml:"cell"`
	// Margin is kept free on every side of the canvas when fitting. Nil means
	// the default; an explicit zero fits the content edge to edge.
	Margin *float64 `yaml:"margin"`

	// MinScale and MaxScale bound the zoom level.
	MinScale float64 `yaml:"min_scale"`
	MaxScale float64 `yaml:"max_scale"`
	// ZoomIn and ZoomOut multiply the scale per wheel notch.
	ZoomIn  float64 `yaml:"zoom_in"`
	ZoomOut float64 `yaml:"zoom_out"`

	// NodeWidth and NodeHeight size a leaf rectangle, in cells.
	NodeWidth  float64 `yaml:"node_width"`
	NodeHeight float64 `yaml:"node_height"`
	// CornerRadius of node shapes in pixels at scale 1.
	CornerRadius float64 `yaml:"corner_radius"`

	// DragThreshold is how far (pixels) a press may travel and still count as a click.
	DragThreshold float64 `yaml:"drag_threshold"`
	// EmphasisRadius, in cells, within which a hovered container gets its outline.
	EmphasisRadius float64 `yaml:"emphasis_radius"`

	// MaxCanvas caps each side of the canvas, in pixels.
	MaxCanvas float64 `yaml:"max_canvas"`
}

// DefaultGeometry returns the stock grid used by the graph service.
func DefaultGeometry() Geometry {
	return Geometry{
		Cell:           80,
		Margin:         Margin(50),
		MinScale:       0.02,
		MaxScale:       2,
		ZoomIn:         1.1,
		ZoomOut:        0.9,
		NodeWidth:      0.9,
		NodeHeight:     0.5,
		CornerRadius:   10,
		DragThreshold:  3,
		EmphasisRadius: 1.5,
		MaxCanvas:      8192,
	}
}

// WithDefaults fills zero fields from DefaultGeometry.
func (g Geometry) WithDefaults() Geometry {
	d := DefaultGeometry()
	if g.Cell <= 0 {
		g.Cell = d.Cell
	}
	if g.Margin == nil {
		g.Margin = d.Margin
	} else if *g.Margin < 0 {
		g.Margin = Margin(0)
	}
	if g.MinScale <= 0 {
		g.MinScale = d.MinScale
	}
	if g.MaxScale <= 0 {
		g.MaxScale = d.MaxScale
	}
	if g.MaxScale < g.MinScale {
		g.MinScale, g.MaxScale = g.MaxScale, g.MinScale
	}
	if g.ZoomIn <= 1 {
		g.ZoomIn = d.ZoomIn
	}
	if g.ZoomOut <= 0 || g.ZoomOut >= 1 {
		g.ZoomOut = d.ZoomOut
	}
	if g.NodeWidth <= 0 {
		g.NodeWidth = d.NodeWidth
	}
	if g.NodeHeight <= 0 {
		g.NodeHeight = d.NodeHeight
	}
	if g.CornerRadius <= 0 {
		g.CornerRadius = d.CornerRadius
	}
	if g.DragThreshold <= 0 {
		g.DragThreshold = d.DragThreshold
	}
	if g.EmphasisRadius <= 0 {
		g.EmphasisRadius = d.EmphasisRadius
	}
	if g.MaxCanvas <= 0 || math.IsNaN(g.MaxCanvas) {
		g.MaxCanvas = d.MaxCanvas
	}
	return g
}

// Margin returns a margin value for Geometry.Margin.
func Margin(px float64) *float64 {
	return &px
}

// FitMargin is the margin in pixels, falling back to the default when unset.
func (g Geometry) FitMargin() float64 {
	if g.Margin == nil {
		return *DefaultGeometry().Margin
	}
	return *g.Margin
}

// CanvasSize bounds a requested canvas size to [0, MaxCanvas] on each side.
// NaN collapses to zero.
func (g Geometry) CanvasSize(width, height float64) (float64, float64) {
	return canvasSide(width, g.MaxCanvas), canvasSide(height, g.MaxCanvas)
}

func canvasSide(v, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return Clamp(v, 0, hi)
}

// Center returns the model-space centre of a node at grid position (gx, gy).
func (g Geometry) Center(gx, gy float64) (float64, float64) {
	return gx * g.Cell, gy * g.Cell
}

// NodeRect is the model-space rectangle of a leaf shape centred on (gx, gy).
func (g Geometry) NodeRect(gx, gy float64) Rect {
	cx, cy := g.Center(gx, gy)
	w := g.NodeWidth * g.Cell
	h := g.NodeHeight * g.Cell
	return Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// BoxRect is the model-space rectangle covered by an inclusive grid extent.
func (g Geometry) BoxRect(minGX, maxGX, minGY, maxGY float64) Rect {
	return Rect{
		X: minGX * g.Cell,
		Y: minGY * g.Cell,
		W: (maxGX + 1 - minGX) * g.Cell,
		H: (maxGY + 1 - minGY) * g.Cell,
	}
}
