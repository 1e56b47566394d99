package ports

import (
	"context"

	"github.com/aretw0/actvis/pkg/domain"
)

// Watchable defines an interface for sources that can notify about backend changes.
// This is typically used for hot-reload of graph snapshot files.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying graph changes.
	// It abstracts away the specific event details, signaling only that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// GraphLoader reads a complete graph snapshot without any program text.
type GraphLoader interface {
	LoadGraph(ctx context.Context) (domain.Graph, error)
}
