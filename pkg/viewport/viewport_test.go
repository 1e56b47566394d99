package viewport

import (
	"testing"

	"github.com/aretw0/actvis/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform_RoundTrip(t *testing.T) {
	tests := []Transform{
		{Scale: 1},
		{Scale: 0.5, OffsetX: 12, OffsetY: -40},
		{Scale: 2, OffsetX: -300, OffsetY: 77.5},
		{Scale: 0.02, OffsetX: 1, OffsetY: 1},
	}
	for _, tr := range tests {
		mx, my := tr.ToModel(123.5, 456.25)
		sx, sy := tr.ToScreen(mx, my)
		assert.InDelta(t, 123.5, sx, 1e-9)
		assert.InDelta(t, 456.25, sy, 1e-9)
	}
}

func TestTransform_Pan(t *testing.T) {
	tr := Transform{Scale: 1, OffsetX: 10, OffsetY: 20}
	// Press at (100, 100): anchor is pointer minus offset.
	anchorX, anchorY := 100-tr.OffsetX, 100-tr.OffsetY

	moved := tr.Pan(130, 90, anchorX, anchorY)
	assert.Equal(t, 40.0, moved.OffsetX)
	assert.Equal(t, 10.0, moved.OffsetY)
	assert.Equal(t, 1.0, moved.Scale)
}

func TestFit_Empty(t *testing.T) {
	_, ok := Fit(nil, 800, 600, DefaultGeometry())
	assert.False(t, ok)
}

func TestFit_SingleNodeUsesUnitScale(t *testing.T) {
	g := DefaultGeometry()
	tr, ok := Fit([]domain.Node{{ID: "1", GX: 0, GY: 0}}, 800, 600, g)
	require.True(t, ok)

	assert.Equal(t, 1.0, tr.Scale)
	// availW = 700, extent = 80 => offset = 50 + (700-80)/2
	assert.InDelta(t, 360.0, tr.OffsetX, 1e-9)
	assert.InDelta(t, 50+(500.0-80)/2, tr.OffsetY, 1e-9)
}

func TestFit_Containment(t *testing.T) {
	g := DefaultGeometry()
	nodes := []domain.Node{
		{ID: "a", GX: -3, GY: 2},
		{ID: "b", GX: 20, GY: 5},
		{ID: "c", GX: 4, GY: 40},
	}
	sizes := [][2]float64{{800, 600}, {300, 1200}, {1920, 1080}, {120, 120}}

	for _, size := range sizes {
		w, h := size[0], size[1]
		tr, ok := Fit(nodes, w, h, g)
		require.True(t, ok)
		assert.LessOrEqual(t, tr.Scale, 1.0)
		assert.Greater(t, tr.Scale, 0.0)

		e, _ := ExtentOf(nodes)
		box := tr.RectToScreen(g.BoxRect(e.MinGX, e.MaxGX, e.MinGY, e.MaxGY))
		assert.GreaterOrEqual(t, box.X, g.FitMargin()-1e-6, "size %v", size)
		assert.GreaterOrEqual(t, box.Y, g.FitMargin()-1e-6, "size %v", size)
		assert.LessOrEqual(t, box.X+box.W, w-g.FitMargin()+1e-6, "size %v", size)
		assert.LessOrEqual(t, box.Y+box.H, h-g.FitMargin()+1e-6, "size %v", size)
	}
}

func TestFit_TinyCanvasKeepsPositiveScale(t *testing.T) {
	tr, ok := Fit([]domain.Node{{ID: "1"}, {ID: "2", GX: 3}}, 60, 40, DefaultGeometry())
	require.True(t, ok)
	assert.Greater(t, tr.Scale, 0.0)
}

func TestZoomAt_PinsCursor(t *testing.T) {
	g := DefaultGeometry()
	tr := Transform{Scale: 0.7, OffsetX: 33, OffsetY: -12}

	for _, delta := range []float64{-1, 1, -120, 53} {
		mx, my := tr.ToModel(250, 175)
		zoomed := tr.ZoomAt(250, 175, delta, g)
		sx, sy := zoomed.ToScreen(mx, my)
		assert.InDelta(t, 250.0, sx, 1e-9)
		assert.InDelta(t, 175.0, sy, 1e-9)
	}
}

func TestZoomAt_Direction(t *testing.T) {
	g := DefaultGeometry()
	tr := Identity()

	assert.InDelta(t, 1.1, tr.ZoomAt(0, 0, -1, g).Scale, 1e-12)
	assert.InDelta(t, 0.9, tr.ZoomAt(0, 0, 1, g).Scale, 1e-12)
	assert.InDelta(t, 0.9, tr.ZoomAt(10, 10, 0, g).Scale, 1e-12, "a zero delta zooms out")
}

func TestZoomAt_ScaleBounds(t *testing.T) {
	g := DefaultGeometry()

	tr := Identity()
	for i := 0; i < 200; i++ {
		tr = tr.ZoomAt(400, 300, -1, g)
	}
	assert.Equal(t, 2.0, tr.Scale)

	for i := 0; i < 500; i++ {
		tr = tr.ZoomAt(400, 300, 1, g)
	}
	assert.Equal(t, 0.02, tr.Scale)
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 5}
	assert.True(t, r.Contains(0, 0))
	assert.True(t, r.Contains(10, 5))
	assert.False(t, r.Contains(10.01, 5))
	assert.False(t, Rect{W: 0, H: 5}.Contains(0, 0))
}

func TestGeometry_WithDefaults(t *testing.T) {
	g := Geometry{Cell: 40}.WithDefaults()
	assert.Equal(t, 40.0, g.Cell)
	assert.Equal(t, 50.0, g.FitMargin())
	assert.Equal(t, 0.02, g.MinScale)
	assert.Equal(t, 1.1, g.ZoomIn)
	assert.Equal(t, DefaultGeometry(), Geometry{}.WithDefaults())

	assert.Equal(t, 0.0, Geometry{Margin: Margin(0)}.WithDefaults().FitMargin(), "explicit zero is kept")
	assert.Equal(t, 0.0, Geometry{Margin: Margin(-5)}.WithDefaults().FitMargin())
	assert.Equal(t, 50.0, Geometry{}.FitMargin())
}

func TestFit_ZeroMargin(t *testing.T) {
	g := Geometry{Margin: Margin(0)}.WithDefaults()
	tr, ok := Fit([]domain.Node{{ID: "1"}, {ID: "2", GX: 9}}, 800, 600, g)
	require.True(t, ok)

	// extent 800 wide fills the canvas exactly
	assert.Equal(t, 1.0, tr.Scale)
	assert.InDelta(t, 0.0, tr.OffsetX, 1e-9)
}
