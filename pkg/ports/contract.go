package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/actvis/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunGraphCacheContract runs a suite of tests to verify that a GraphCache implementation
// adheres to the defined interface contract.
func RunGraphCacheContract(t *testing.T, cache GraphCache) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405")

	graph := domain.Graph{
		Nodes: []domain.Node{
			{ID: "1", Name: "main", Type: domain.NodeTypeSequence, GX: 0, GY: 0,
				BBox: &domain.BBox{MinGX: 0, MaxGX: 2, MinGY: 0, MaxGY: 3}},
			{ID: "2", Name: "step", Type: domain.NodeTypeAtomic, GX: 1, GY: 1},
		},
		Edges: []domain.Edge{{From: "1", To: "2"}},
	}

	t.Run("Set and Get", func(t *testing.T) {
		err := cache.Set(ctx, key, graph, 0)
		require.NoError(t, err, "Set should not return error")

		got, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, graph, got)
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := cache.Get(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, graph, 0))

		err := cache.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = cache.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss, "Get after Delete should return ErrCacheMiss")

		assert.NoError(t, cache.Delete(ctx, key), "deleting twice is not an error")
	})
}
