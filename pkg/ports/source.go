package ports

import (
	"context"

	"github.com/aretw0/actvis/pkg/domain"
)

// GraphSource converts program text into a positioned activity graph.
// entry selects the action to expand; empty means the program's top level.
type GraphSource interface {
	FetchGraph(ctx context.Context, text, entry string) (domain.Graph, error)
}

// ActionCatalog lists the actions defined by a program text.
type ActionCatalog interface {
	ListActions(ctx context.Context, text string) ([]domain.ActionInfo, error)
}
