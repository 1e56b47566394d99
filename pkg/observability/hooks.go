package observability

import (
	"log/slog"

	"github.com/aretw0/actvis/pkg/domain"
)

// LogHooks returns lifecycle hooks writing one structured log line per event.
// Input events are logged at debug level only.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSceneLoad: func(e *domain.SceneEvent) {
			logger.Info("scene_load", "nodes", e.Nodes, "edges", e.Edges, "dropped", e.Dropped)
		},
		OnEdgeDropped: func(e *domain.EdgeEvent) {
			logger.Warn("edge_dropped", "from", e.Edge.From, "to", e.Edge.To)
		},
		OnSelect: func(e *domain.SelectionEvent) {
			logger.Info("select", "node_id", e.Selection.ID, "type", e.Selection.Type)
		},
		OnHover: func(e *domain.SelectionEvent) {
			logger.Debug("hover", "node_id", e.Selection.ID)
		},
		OnInput: func(e *domain.InputEventRecord) {
			logger.Debug("input", "kind", e.Kind, "redraw", e.Redraw)
		},
		OnSourceCall: func(e *domain.SourceEvent) {
			if e.Err != nil {
				logger.Warn("source_call", "operation", e.Operation, "duration", e.Duration, "err", e.Err)
				return
			}
			logger.Debug("source_call", "operation", e.Operation, "duration", e.Duration)
		},
	}
}

// Chain merges hook sets; every non-nil callback runs, in argument order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnSceneLoad = chain(out.OnSceneLoad, h.OnSceneLoad)
		out.OnEdgeDropped = chain(out.OnEdgeDropped, h.OnEdgeDropped)
		out.OnSelect = chain(out.OnSelect, h.OnSelect)
		out.OnHover = chain(out.OnHover, h.OnHover)
		out.OnInput = chain(out.OnInput, h.OnInput)
		out.OnSourceCall = chain(out.OnSourceCall, h.OnSourceCall)
	}
	return out
}

func chain[E any](a, b func(*E)) func(*E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e *E) {
		a(e)
		b(e)
	}
}
