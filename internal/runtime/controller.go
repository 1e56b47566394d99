package runtime

import (
	"log/slog"
	"math"

	"github.com/aretw0/actvis/internal/logging"
	"github.com/aretw0/actvis/pkg/domain"
	"github.com/aretw0/actvis/pkg/scene"
	"github.com/aretw0/actvis/pkg/viewport"
)

// Interaction is the pointer state of a view.
type Interaction struct {
	Hover    domain.NodeID
	Selected domain.NodeID

	Panning bool
	// AnchorX/AnchorY is the pointer position minus the offset at pan start.
	AnchorX, AnchorY float64
	// PressX/PressY is where the current press started.
	PressX, PressY float64
	// Dragged is set once a press travelled past the drag threshold.
	Dragged bool

	PointerX, PointerY float64
	// Inside is false until the first pointer event and after a leave.
	Inside bool
}

// Result tells the caller what an input event changed.
type Result struct {
	Redraw           bool `json:"redraw"`
	SelectionChanged bool `json:"selection_changed"`
	HoverChanged     bool `json:"hover_changed"`
}

// View is everything the renderer needs for one frame.
type View struct {
	Scene     *scene.Snapshot
	Transform viewport.Transform
	Width     float64
	Height    float64
	Hover     domain.NodeID
	Selected  domain.NodeID
	// Emphasis is the hovered container currently close enough to its centre
	// to get an outline, or empty.
	Emphasis domain.NodeID
}

// Controller owns the scene, the view transform and the interaction state of
// one viewport. It is not safe for concurrent use; callers serialise access.
type Controller struct {
	store     *scene.Store
	geom      viewport.Geometry
	transform viewport.Transform
	width     float64
	height    float64
	ia        Interaction

	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	listener domain.SelectionListener
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithGeometry overrides the grid geometry. Zero fields keep their defaults.
func WithGeometry(g viewport.Geometry) ControllerOption {
	return func(c *Controller) {
		c.geom = g.WithDefaults()
	}
}

// WithCanvasSize sets the initial canvas size in pixels. It is bounded by
// Geometry.CanvasSize.
func WithCanvasSize(width, height float64) ControllerOption {
	return func(c *Controller) {
		c.width, c.height = width, height
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) ControllerOption {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithSelectionListener registers the callback notified on every click.
func WithSelectionListener(l domain.SelectionListener) ControllerOption {
	return func(c *Controller) {
		c.listener = l
	}
}

// NewController creates a controller holding the empty scene.
func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		store:     scene.NewStore(),
		geom:      viewport.DefaultGeometry(),
		transform: viewport.Identity(),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.width, c.height = c.geom.CanvasSize(c.width, c.height)
	return c
}

// Geometry returns the grid geometry in use.
func (c *Controller) Geometry() viewport.Geometry { return c.geom }

// Transform returns the current view transform.
func (c *Controller) Transform() viewport.Transform { return c.transform }

// Interaction returns a copy of the interaction state.
func (c *Controller) Interaction() Interaction { return c.ia }

// Scene returns the snapshot in effect.
func (c *Controller) Scene() *scene.Snapshot { return c.store.Current() }

// Size returns the canvas size.
func (c *Controller) Size() (float64, float64) { return c.width, c.height }

// SetSelectionListener replaces the click listener.
func (c *Controller) SetSelectionListener(l domain.SelectionListener) {
	c.listener = l
}

// Load replaces the scene with g, clears hover and selection, and fits the
// transform to the new content. An empty graph keeps the current transform.
// Edges with unresolvable endpoints are dropped and reported.
func (c *Controller) Load(g domain.Graph) *scene.Snapshot {
	hadSelection := c.ia.Selected != ""

	snap := c.store.Replace(g)
	c.ia.Hover = ""
	c.ia.Selected = ""

	if t, ok := viewport.Fit(snap.Nodes(), c.width, c.height, c.geom); ok {
		c.transform = t
	}

	_, dropped := snap.Resolve()
	for _, d := range dropped {
		c.logger.Warn("dropping edge with unknown endpoint",
			"from", d.Edge.From, "to", d.Edge.To,
			"missing_from", d.MissingFrom, "missing_to", d.MissingTo)
		if c.hooks.OnEdgeDropped != nil {
			c.hooks.OnEdgeDropped(&domain.EdgeEvent{
				EventBase:   domain.NewEventBase(domain.EventEdgeDropped),
				Edge:        d.Edge,
				MissingFrom: d.MissingFrom,
				MissingTo:   d.MissingTo,
			})
		}
	}

	c.logger.Debug("scene loaded", "nodes", snap.Len(), "edges", len(snap.Edges()), "dropped", len(dropped))
	if c.hooks.OnSceneLoad != nil {
		c.hooks.OnSceneLoad(&domain.SceneEvent{
			EventBase: domain.NewEventBase(domain.EventSceneLoad),
			Nodes:     snap.Len(),
			Edges:     len(snap.Edges()),
			Dropped:   len(dropped),
		})
	}

	if hadSelection {
		c.notify(domain.Selection{})
	}
	return snap
}

// Refit recomputes the transform from the current scene and canvas size.
func (c *Controller) Refit() bool {
	t, ok := viewport.Fit(c.store.Current().Nodes(), c.width, c.height, c.geom)
	if ok {
		c.transform = t
	}
	return ok
}

// HandleInput applies one input event. Unknown or nil events change nothing.
func (c *Controller) HandleInput(ev domain.InputEvent) Result {
	var res Result
	switch e := ev.(type) {
	case domain.PointerDown:
		res = c.pointerDown(e)
	case domain.PointerMove:
		res = c.pointerMove(e)
	case domain.PointerUp:
		res = c.pointerUp(e)
	case domain.PointerLeave:
		res = c.pointerLeave()
	case domain.Wheel:
		res = c.wheel(e)
	case domain.Resize:
		res = c.resize(e)
	default:
		c.logger.Debug("ignoring unknown input event", "kind", kindOf(ev))
		return res
	}

	if c.hooks.OnInput != nil {
		c.hooks.OnInput(&domain.InputEventRecord{
			EventBase: domain.NewEventBase(domain.EventInput),
			Kind:      ev.Kind(),
			Redraw:    res.Redraw,
		})
	}
	return res
}

func kindOf(ev domain.InputEvent) string {
	if ev == nil {
		return "nil"
	}
	return string(ev.Kind())
}

func (c *Controller) pointerDown(e domain.PointerDown) Result {
	c.track(e.X, e.Y)
	c.ia.Panning = true
	c.ia.Dragged = false
	c.ia.PressX, c.ia.PressY = e.X, e.Y
	c.ia.AnchorX = e.X - c.transform.OffsetX
	c.ia.AnchorY = e.Y - c.transform.OffsetY
	return Result{}
}

func (c *Controller) pointerMove(e domain.PointerMove) Result {
	if c.ia.Panning {
		c.track(e.X, e.Y)
		if !c.ia.Dragged && c.travelled(e.X, e.Y) > c.geom.DragThreshold {
			c.ia.Dragged = true
		}
		c.transform = c.transform.Pan(e.X, e.Y, c.ia.AnchorX, c.ia.AnchorY)
		return Result{Redraw: true}
	}

	before := c.emphasis()
	c.track(e.X, e.Y)

	var hover domain.NodeID
	if n, ok := scene.HitTest(c.store.Current(), c.transform, c.geom, e.X, e.Y); ok {
		hover = n.ID
	}
	changed := hover != c.ia.Hover
	if changed {
		c.ia.Hover = hover
		c.emitHover(hover)
	}
	return Result{
		Redraw:       changed || c.emphasis() != before,
		HoverChanged: changed,
	}
}

func (c *Controller) pointerUp(e domain.PointerUp) Result {
	if !c.ia.Panning {
		return Result{}
	}
	c.track(e.X, e.Y)
	c.ia.Panning = false

	if c.ia.Dragged || c.travelled(e.X, e.Y) > c.geom.DragThreshold {
		c.ia.Dragged = false
		return Result{}
	}
	return c.click(e.X, e.Y)
}

func (c *Controller) click(x, y float64) Result {
	sel := domain.Selection{}
	if n, ok := scene.HitTest(c.store.Current(), c.transform, c.geom, x, y); ok {
		sel = domain.SelectionOf(n)
	}

	changed := sel.ID != c.ia.Selected
	c.ia.Selected = sel.ID
	c.logger.Debug("click", "node_id", sel.ID, "changed", changed)

	if c.hooks.OnSelect != nil {
		c.hooks.OnSelect(&domain.SelectionEvent{
			EventBase: domain.NewEventBase(domain.EventSelect),
			Selection: sel,
		})
	}
	c.notify(sel)
	return Result{Redraw: true, SelectionChanged: changed}
}

func (c *Controller) pointerLeave() Result {
	before := c.emphasis()
	c.ia.Panning = false
	c.ia.Dragged = false
	c.ia.Inside = false

	changed := c.ia.Hover != ""
	if changed {
		c.ia.Hover = ""
		c.emitHover("")
	}
	return Result{
		Redraw:       changed || before != "",
		HoverChanged: changed,
	}
}

func (c *Controller) wheel(e domain.Wheel) Result {
	c.track(e.X, e.Y)
	c.transform = c.transform.ZoomAt(e.X, e.Y, e.DeltaY, c.geom)
	if c.ia.Panning {
		c.ia.AnchorX = e.X - c.transform.OffsetX
		c.ia.AnchorY = e.Y - c.transform.OffsetY
	}
	return Result{Redraw: true}
}

func (c *Controller) resize(e domain.Resize) Result {
	c.width, c.height = c.geom.CanvasSize(e.Width, e.Height)
	return Result{Redraw: true}
}

func (c *Controller) track(x, y float64) {
	c.ia.PointerX, c.ia.PointerY = x, y
	c.ia.Inside = true
}

func (c *Controller) travelled(x, y float64) float64 {
	return math.Hypot(x-c.ia.PressX, y-c.ia.PressY)
}

// emphasis returns the hovered container when the pointer is within the
// emphasis radius of its centre, measured in model space.
func (c *Controller) emphasis() domain.NodeID {
	if c.ia.Hover == "" || !c.ia.Inside {
		return ""
	}
	n, ok := c.store.Current().Lookup(c.ia.Hover)
	if !ok || !n.IsContainer() || n.BBox == nil || n.BBox.Degenerate() {
		return ""
	}
	mx, my := c.transform.ToModel(c.ia.PointerX, c.ia.PointerY)
	cx, cy := c.geom.Center(n.GX, n.GY)
	if math.Hypot(mx-cx, my-cy) < c.geom.EmphasisRadius*c.geom.Cell {
		return n.ID
	}
	return ""
}

func (c *Controller) emitHover(id domain.NodeID) {
	if c.hooks.OnHover == nil {
		return
	}
	sel := domain.Selection{}
	if n, ok := c.store.Current().Lookup(id); ok {
		sel = domain.SelectionOf(&n)
	}
	c.hooks.OnHover(&domain.SelectionEvent{
		EventBase: domain.NewEventBase(domain.EventHover),
		Selection: sel,
	})
}

func (c *Controller) notify(sel domain.Selection) {
	if c.listener != nil {
		c.listener(sel)
	}
}

// View captures the state needed to draw one frame.
func (c *Controller) View() View {
	return View{
		Scene:     c.store.Current(),
		Transform: c.transform,
		Width:     c.width,
		Height:    c.height,
		Hover:     c.ia.Hover,
		Selected:  c.ia.Selected,
		Emphasis:  c.emphasis(),
	}
}

// State returns the serialisable view state.
func (c *Controller) State() domain.ViewState {
	snap := c.store.Current()
	st := domain.ViewState{
		Transform: c.transform.DTO(),
		Width:     c.width,
		Height:    c.height,
		Panning:   c.ia.Panning,
		Hover:     c.ia.Hover,
		Selected:  c.ia.Selected,
		Nodes:     snap.Len(),
		Edges:     len(snap.Edges()),
		Selection: domain.Selection{},
	}
	if n, ok := snap.Lookup(c.ia.Selected); ok {
		st.Selection = domain.SelectionOf(&n)
	}
	return st
}
