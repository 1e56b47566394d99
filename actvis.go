package actvis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/actvis/internal/logging"
	"github.com/aretw0/actvis/internal/runtime"
	"github.com/aretw0/actvis/pkg/domain"
	"github.com/aretw0/actvis/pkg/ports"
	"github.com/aretw0/actvis/pkg/viewport"
)

// Result tells the caller what an input event changed.
type Result = runtime.Result

// DrawStats summarises one rendered frame.
type DrawStats = runtime.DrawStats

// Palette holds every colour the renderer uses.
type Palette = runtime.Palette

// DefaultPalette returns the stock colours of the activity graph viewer.
func DefaultPalette() Palette { return runtime.DefaultPalette() }

// LoadSummary describes a scene that was just installed. Edges counts the
// drawable edges; Dropped the ones with an unknown endpoint.
type LoadSummary struct {
	Nodes   int `json:"nodes"`
	Edges   int `json:"edges"`
	Dropped int `json:"dropped"`
}

// Engine is the high-level entry point of the library: one viewport with its
// scene, view transform and interaction state. All methods are safe for
// concurrent use; they are serialised so input handling, scene loads and
// drawing never interleave.
type Engine struct {
	mu       sync.Mutex
	ctrl     *runtime.Controller
	renderer *runtime.Renderer

	source  ports.GraphSource
	catalog ports.ActionCatalog

	geom     viewport.Geometry
	palette  Palette
	width    float64
	height   float64
	hooks    domain.LifecycleHooks
	listener domain.SelectionListener
	// pending holds selections raised under mu, delivered once it is released.
	pending []domain.Selection
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithGeometry overrides the grid geometry. Zero fields keep their defaults.
func WithGeometry(g viewport.Geometry) Option {
	return func(e *Engine) {
		e.geom = g.WithDefaults()
	}
}

// WithCanvasSize sets the initial canvas size in pixels.
func WithCanvasSize(width, height float64) Option {
	return func(e *Engine) {
		e.width, e.height = width, height
	}
}

// WithPalette replaces the renderer colours.
func WithPalette(p Palette) Option {
	return func(e *Engine) {
		e.palette = p
	}
}

// WithSelectionListener registers the callback notified on every click and
// whenever a scene replacement clears the selection. The listener runs after
// the engine lock is released, so it may call back into the Engine.
func WithSelectionListener(l domain.SelectionListener) Option {
	return func(e *Engine) {
		e.listener = l
	}
}

// WithSource injects the graph source used by LoadFromSource and OpenAction.
func WithSource(s ports.GraphSource) Option {
	return func(e *Engine) {
		e.source = s
	}
}

// WithCatalog injects the action catalog used by ListActions.
func WithCatalog(c ports.ActionCatalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// New initializes an Engine holding the empty scene.
func New(opts ...Option) *Engine {
	eng := &Engine{
		geom:    viewport.DefaultGeometry(),
		palette: runtime.DefaultPalette(),
		width:   800,
		height:  600,
	}
	for _, opt := range opts {
		opt(eng)
	}

	// Default to a no-op logger.
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	eng.ctrl = runtime.NewController(
		runtime.WithGeometry(eng.geom),
		runtime.WithCanvasSize(eng.width, eng.height),
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithSelectionListener(eng.enqueue),
	)
	eng.renderer = runtime.NewRenderer(eng.geom, eng.palette, eng.logger)
	return eng
}

// Load replaces the scene with g and fits the view to it.
func (e *Engine) Load(g domain.Graph) LoadSummary {
	e.mu.Lock()
	defer e.unlockAndNotify()
	return e.load(g)
}

func (e *Engine) load(g domain.Graph) LoadSummary {
	snap := e.ctrl.Load(g)
	segments, dropped := snap.Resolve()
	return LoadSummary{Nodes: snap.Len(), Edges: len(segments), Dropped: len(dropped)}
}

// LoadFromSource fetches the graph for text (expanding entry when non-empty)
// and installs it. On failure the current scene is left untouched.
// The fetch runs without holding the engine lock; concurrent loads finish in
// arrival order and the last one wins.
func (e *Engine) LoadFromSource(ctx context.Context, text, entry string) (LoadSummary, error) {
	if e.source == nil {
		return LoadSummary{}, fmt.Errorf("%w: no graph source configured", domain.ErrSourceUnavailable)
	}

	start := time.Now()
	g, err := e.source.FetchGraph(ctx, text, entry)
	e.emitSourceCall("fetch_graph", time.Since(start), err)
	if err != nil {
		e.logger.Error("failed to fetch graph", "entry", entry, "err", err)
		return LoadSummary{}, fmt.Errorf("failed to fetch graph: %w", err)
	}

	e.mu.Lock()
	defer e.unlockAndNotify()
	return e.load(g), nil
}

// ListActions returns the actions defined by text.
func (e *Engine) ListActions(ctx context.Context, text string) ([]domain.ActionInfo, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: no action catalog configured", domain.ErrSourceUnavailable)
	}

	start := time.Now()
	actions, err := e.catalog.ListActions(ctx, text)
	e.emitSourceCall("list_actions", time.Since(start), err)
	if err != nil {
		e.logger.Error("failed to list actions", "err", err)
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	return actions, nil
}

// OpenAction shows the activity of a catalog entry. Compound actions fetch
// their graph; atomic ones have nothing to show and clear the scene.
func (e *Engine) OpenAction(ctx context.Context, text string, info domain.ActionInfo) (LoadSummary, error) {
	if !info.IsCompound() {
		return e.Load(domain.Graph{}), nil
	}
	return e.LoadFromSource(ctx, text, info.Name)
}

// HandleInput applies one input event.
func (e *Engine) HandleInput(ev domain.InputEvent) Result {
	e.mu.Lock()
	defer e.unlockAndNotify()
	return e.ctrl.HandleInput(ev)
}

// Draw renders the current frame onto cv. It does not change any state.
func (e *Engine) Draw(cv ports.Canvas) DrawStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderer.Draw(cv, e.ctrl.View())
}

// Refit recomputes the view transform from the scene and the canvas size.
// It reports false, leaving the transform unchanged, for an empty scene.
func (e *Engine) Refit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl.Refit()
}

// State returns a serialisable snapshot of the view.
func (e *Engine) State() domain.ViewState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl.State()
}

// Snapshot returns a copy of the current scene.
func (e *Engine) Snapshot() domain.Graph {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl.Scene().Graph()
}

// Size returns the canvas size in pixels.
func (e *Engine) Size() (float64, float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl.Size()
}

// SetSelectionListener replaces the click listener.
func (e *Engine) SetSelectionListener(l domain.SelectionListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener = l
}

// enqueue is the controller's listener. It runs with mu held.
func (e *Engine) enqueue(sel domain.Selection) {
	e.pending = append(e.pending, sel)
}

// unlockAndNotify releases mu and then hands queued selections to the listener.
func (e *Engine) unlockAndNotify() {
	pending, l := e.pending, e.listener
	e.pending = nil
	e.mu.Unlock()

	if l == nil {
		return
	}
	for _, sel := range pending {
		l(sel)
	}
}

// Geometry returns the grid geometry in use.
func (e *Engine) Geometry() viewport.Geometry {
	return e.geom
}

// Palette returns the renderer colours.
func (e *Engine) Palette() Palette {
	return e.palette
}

func (e *Engine) emitSourceCall(op string, d time.Duration, err error) {
	if e.hooks.OnSourceCall == nil {
		return
	}
	e.hooks.OnSourceCall(&domain.SourceEvent{
		EventBase: domain.NewEventBase(domain.EventSourceCall),
		Operation: op,
		Duration:  d,
		Err:       err,
	})
}
