package runtime_test

import (
	"math"
	"testing"

	"github.com/aretw0/actvis/internal/runtime"
	"github.com/aretw0/actvis/pkg/domain"
	"github.com/aretw0/actvis/pkg/viewport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleGraph is a sequence with two atomic steps inside a parallel block.
//
//	gx: 0..4, gy: 0..3
func sampleGraph() domain.Graph {
	return domain.Graph{
		Nodes: []domain.Node{
			{ID: "1", Name: "main", Type: domain.NodeTypeSequence, GX: 0, GY: 0,
				BBox: &domain.BBox{MinGX: 0, MaxGX: 4, MinGY: 0, MaxGY: 3}},
			{ID: "2", Name: "par", Type: domain.NodeTypeParallel, GX: 1, GY: 1,
				BBox: &domain.BBox{MinGX: 1, MaxGX: 3, MinGY: 1, MaxGY: 2}},
			{ID: "3", Name: "a", Type: domain.NodeTypeAtomic, GX: 2, GY: 1},
			{ID: "4", Name: "b", Type: domain.NodeTypeAtomic, GX: 2, GY: 2},
			{ID: "5", Name: "End_main", Type: domain.NodeTypeMerge, GX: 4, GY: 3},
		},
		Edges: []domain.Edge{{From: "2", To: "3"}, {From: "2", To: "4"}},
	}
}

// newLoaded returns a controller with sampleGraph loaded and an identity-like
// transform so screen and model coordinates are easy to reason about.
func newLoaded(t *testing.T, opts ...runtime.ControllerOption) *runtime.Controller {
	t.Helper()
	opts = append([]runtime.ControllerOption{runtime.WithCanvasSize(800, 600)}, opts...)
	c := runtime.NewController(opts...)
	c.Load(sampleGraph())
	return c
}

// screenOf returns the screen position of grid point (gx, gy).
func screenOf(c *runtime.Controller, gx, gy float64) (float64, float64) {
	return c.Transform().ToScreen(c.Geometry().Center(gx, gy))
}

func TestController_LoadFitsTransform(t *testing.T) {
	c := newLoaded(t)
	tr := c.Transform()
	assert.Equal(t, 1.0, tr.Scale, "5x4 cells fit 700x500 without scaling")
	// availW = 700, extentW = 400 => offsetX = 50 + 150
	assert.InDelta(t, 200.0, tr.OffsetX, 1e-9)
	assert.InDelta(t, 50+(500.0-320)/2, tr.OffsetY, 1e-9)
}

func TestController_EmptyLoadKeepsTransform(t *testing.T) {
	c := newLoaded(t)
	before := c.Transform()
	c.Load(domain.Graph{})
	assert.Equal(t, before, c.Transform())
	assert.Equal(t, 0, c.Scene().Len())
}

func TestController_PanMovesOffset(t *testing.T) {
	c := newLoaded(t)
	start := c.Transform()

	c.HandleInput(domain.PointerDown{X: 100, Y: 100})
	assert.True(t, c.Interaction().Panning)

	res := c.HandleInput(domain.PointerMove{X: 130, Y: 80})
	assert.True(t, res.Redraw)
	assert.InDelta(t, start.OffsetX+30, c.Transform().OffsetX, 1e-9)
	assert.InDelta(t, start.OffsetY-20, c.Transform().OffsetY, 1e-9)

	res = c.HandleInput(domain.PointerUp{X: 130, Y: 80})
	assert.False(t, c.Interaction().Panning)
	assert.False(t, res.SelectionChanged, "a drag is not a click")
	assert.Empty(t, c.Interaction().Selected)
}

func TestController_ClickSelectsAndNotifies(t *testing.T) {
	var got []domain.Selection
	c := newLoaded(t, runtime.WithSelectionListener(func(s domain.Selection) {
		got = append(got, s)
	}))

	x, y := screenOf(c, 2, 1)
	c.HandleInput(domain.PointerDown{X: x, Y: y})
	res := c.HandleInput(domain.PointerUp{X: x + 1, Y: y})

	assert.True(t, res.Redraw)
	assert.True(t, res.SelectionChanged)
	assert.Equal(t, domain.NodeID("3"), c.Interaction().Selected)
	require.Len(t, got, 1)
	assert.Equal(t, "Node: a, Type: atomic", got[0].Message())

	// Clicking empty space clears the selection.
	c.HandleInput(domain.PointerDown{X: 1, Y: 1})
	res = c.HandleInput(domain.PointerUp{X: 1, Y: 1})
	assert.True(t, res.SelectionChanged)
	assert.Empty(t, c.Interaction().Selected)
	require.Len(t, got, 2)
	assert.Equal(t, domain.SelectionPrompt, got[1].Message())
}

func TestController_ClickSameNodeTwice(t *testing.T) {
	calls := 0
	c := newLoaded(t, runtime.WithSelectionListener(func(domain.Selection) { calls++ }))

	x, y := screenOf(c, 2, 2)
	for i := 0; i < 2; i++ {
		c.HandleInput(domain.PointerDown{X: x, Y: y})
		c.HandleInput(domain.PointerUp{X: x, Y: y})
	}
	assert.Equal(t, 2, calls)
	assert.Equal(t, domain.NodeID("4"), c.Interaction().Selected)
}

func TestController_SmallJitterStillClicks(t *testing.T) {
	c := newLoaded(t)
	x, y := screenOf(c, 2, 1)

	c.HandleInput(domain.PointerDown{X: x, Y: y})
	c.HandleInput(domain.PointerMove{X: x + 2, Y: y})
	c.HandleInput(domain.PointerUp{X: x + 2, Y: y})

	assert.Equal(t, domain.NodeID("3"), c.Interaction().Selected)
}

func TestController_DragBackDoesNotClick(t *testing.T) {
	c := newLoaded(t)
	x, y := screenOf(c, 2, 1)

	c.HandleInput(domain.PointerDown{X: x, Y: y})
	c.HandleInput(domain.PointerMove{X: x + 50, Y: y})
	c.HandleInput(domain.PointerMove{X: x, Y: y})
	c.HandleInput(domain.PointerUp{X: x, Y: y})

	assert.Empty(t, c.Interaction().Selected)
}

func TestController_LeaveEndsPanWithoutClick(t *testing.T) {
	calls := 0
	c := newLoaded(t, runtime.WithSelectionListener(func(domain.Selection) { calls++ }))
	x, y := screenOf(c, 2, 1)

	c.HandleInput(domain.PointerDown{X: x, Y: y})
	c.HandleInput(domain.PointerLeave{})
	assert.False(t, c.Interaction().Panning)

	res := c.HandleInput(domain.PointerUp{X: x, Y: y})
	assert.Equal(t, runtime.Result{}, res, "up while idle is a no-op")
	assert.Zero(t, calls)

	// Leaving while idle is harmless too.
	assert.NotPanics(t, func() { c.HandleInput(domain.PointerLeave{}) })
}

func TestController_HoverRedrawsOnlyOnChange(t *testing.T) {
	c := newLoaded(t)
	x, y := screenOf(c, 2, 1)

	res := c.HandleInput(domain.PointerMove{X: x, Y: y})
	assert.True(t, res.Redraw)
	assert.True(t, res.HoverChanged)
	assert.Equal(t, domain.NodeID("3"), c.Interaction().Hover)

	res = c.HandleInput(domain.PointerMove{X: x + 1, Y: y + 1})
	assert.False(t, res.Redraw)
	assert.False(t, res.HoverChanged)

	res = c.HandleInput(domain.PointerLeave{})
	assert.True(t, res.HoverChanged)
	assert.Empty(t, c.Interaction().Hover)
}

func TestController_ContainerEmphasis(t *testing.T) {
	c := newLoaded(t)

	// Inside the parallel bbox, close to its centre (1, 1) but off any leaf.
	x, y := screenOf(c, 1, 1.4)
	res := c.HandleInput(domain.PointerMove{X: x, Y: y})
	assert.True(t, res.HoverChanged)
	assert.Equal(t, domain.NodeID("2"), c.Interaction().Hover)
	assert.Equal(t, domain.NodeID("2"), c.View().Emphasis)

	// Still inside the bbox but far from the centre: hover stays, emphasis goes.
	x, y = screenOf(c, 3.8, 2.4)
	res = c.HandleInput(domain.PointerMove{X: x, Y: y})
	assert.False(t, res.HoverChanged)
	assert.True(t, res.Redraw)
	assert.Equal(t, domain.NodeID("2"), c.Interaction().Hover)
	assert.Empty(t, c.View().Emphasis)
}

func TestController_WheelZoomsAroundCursor(t *testing.T) {
	c := newLoaded(t)
	before := c.Transform()
	mx, my := before.ToModel(300, 200)

	res := c.HandleInput(domain.Wheel{X: 300, Y: 200, DeltaY: -100})
	assert.True(t, res.Redraw)

	after := c.Transform()
	assert.InDelta(t, before.Scale*1.1, after.Scale, 1e-9)
	sx, sy := after.ToScreen(mx, my)
	assert.InDelta(t, 300.0, sx, 1e-9)
	assert.InDelta(t, 200.0, sy, 1e-9)

	res = c.HandleInput(domain.Wheel{X: 300, Y: 200})
	assert.True(t, res.Redraw, "a zero delta zooms out")
	assert.InDelta(t, after.Scale*0.9, c.Transform().Scale, 1e-9)
}

func TestController_WheelWhilePanningRebasesAnchor(t *testing.T) {
	c := newLoaded(t)

	c.HandleInput(domain.PointerDown{X: 100, Y: 100})
	c.HandleInput(domain.Wheel{X: 100, Y: 100, DeltaY: 1})
	zoomed := c.Transform()

	c.HandleInput(domain.PointerMove{X: 110, Y: 100})
	assert.InDelta(t, zoomed.OffsetX+10, c.Transform().OffsetX, 1e-9)
	assert.InDelta(t, zoomed.OffsetY, c.Transform().OffsetY, 1e-9)
}

func TestController_ResizeDoesNotRefit(t *testing.T) {
	c := newLoaded(t)
	before := c.Transform()

	res := c.HandleInput(domain.Resize{Width: 1920, Height: 1080})
	assert.True(t, res.Redraw)
	assert.Equal(t, before, c.Transform())
	w, h := c.Size()
	assert.Equal(t, 1920.0, w)
	assert.Equal(t, 1080.0, h)
}

func TestController_CanvasSizeIsBounded(t *testing.T) {
	c := newLoaded(t)

	c.HandleInput(domain.Resize{Width: 1e12, Height: -20})
	w, h := c.Size()
	assert.Equal(t, 8192.0, w)
	assert.Equal(t, 0.0, h)

	c.HandleInput(domain.Resize{Width: math.NaN(), Height: math.Inf(1)})
	w, h = c.Size()
	assert.Equal(t, 0.0, w)
	assert.Equal(t, 8192.0, h)

	small := runtime.NewController(
		runtime.WithCanvasSize(5000, 5000),
		runtime.WithGeometry(viewport.Geometry{MaxCanvas: 1000}),
	)
	w, h = small.Size()
	assert.Equal(t, 1000.0, w, "option order does not matter")
	assert.Equal(t, 1000.0, h)
}

func TestController_ReplaceClearsSelection(t *testing.T) {
	var got []domain.Selection
	c := newLoaded(t, runtime.WithSelectionListener(func(s domain.Selection) {
		got = append(got, s)
	}))

	x, y := screenOf(c, 2, 1)
	c.HandleInput(domain.PointerMove{X: x, Y: y})
	c.HandleInput(domain.PointerDown{X: x, Y: y})
	c.HandleInput(domain.PointerUp{X: x, Y: y})
	require.Equal(t, domain.NodeID("3"), c.Interaction().Selected)

	c.Load(sampleGraph())
	assert.Empty(t, c.Interaction().Selected)
	assert.Empty(t, c.Interaction().Hover)
	require.Len(t, got, 2)
	assert.True(t, got[1].IsEmpty(), "listener is told the selection was cleared")
}

func TestController_DroppedEdgesAreReported(t *testing.T) {
	var dropped []domain.Edge
	var loads []int
	c := runtime.NewController(
		runtime.WithCanvasSize(400, 300),
		runtime.WithLifecycleHooks(domain.LifecycleHooks{
			OnEdgeDropped: func(e *domain.EdgeEvent) { dropped = append(dropped, e.Edge) },
			OnSceneLoad:   func(e *domain.SceneEvent) { loads = append(loads, e.Dropped) },
		}),
	)

	c.Load(domain.Graph{
		Nodes: []domain.Node{{ID: "1", Type: domain.NodeTypeAtomic}, {ID: "2", Type: domain.NodeTypeAtomic, GX: 1}},
		Edges: []domain.Edge{{From: "1", To: "2"}, {From: "1", To: "99"}},
	})

	assert.Equal(t, []domain.Edge{{From: "1", To: "99"}}, dropped)
	assert.Equal(t, []int{1}, loads)
}

func TestController_InputHook(t *testing.T) {
	var kinds []domain.EventKind
	c := newLoaded(t, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnInput: func(e *domain.InputEventRecord) { kinds = append(kinds, e.Kind) },
	}))

	c.HandleInput(domain.Resize{Width: 10, Height: 10})
	c.HandleInput(nil)
	c.HandleInput(domain.PointerLeave{})

	assert.Equal(t, []domain.EventKind{domain.KindResize, domain.KindPointerLeave}, kinds)
}

func TestController_State(t *testing.T) {
	c := newLoaded(t)
	x, y := screenOf(c, 2, 2)
	c.HandleInput(domain.PointerDown{X: x, Y: y})
	c.HandleInput(domain.PointerUp{X: x, Y: y})

	st := c.State()
	assert.Equal(t, 5, st.Nodes)
	assert.Equal(t, 2, st.Edges)
	assert.Equal(t, domain.NodeID("4"), st.Selected)
	assert.Equal(t, "b", st.Selection.Name)
	assert.Equal(t, 800.0, st.Width)
}
