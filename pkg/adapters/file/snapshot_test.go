package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/actvis/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() domain.Graph {
	return domain.Graph{
		Nodes: []domain.Node{
			{ID: "1", Name: "main", Type: domain.NodeTypeParallel, GX: 0, GY: 0,
				BBox: &domain.BBox{MinGX: 0, MaxGX: 1, MinGY: 0, MaxGY: 2}},
			{ID: "2", Name: "work", Type: domain.NodeTypeAtomic, GX: 1, GY: 1},
		},
		Edges: []domain.Edge{{From: "1", To: "2"}},
	}
}

func TestSnapshot_SaveAndLoad(t *testing.T) {
	for _, name := range []string{"graph.json", "graph.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(path, sample()))

			g, err := New(path).LoadGraph(context.Background())
			require.NoError(t, err)
			assert.Equal(t, sample(), g)
		})
	}
}

func TestSnapshot_ServiceFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parse.json")
	body := `{"nodes": [{"id": 1, "type": "atomic", "gx": 0, "gy": 0}, {"id": 2, "type": "end", "gx": 0, "gy": 1}], "edges": [[1, 2]]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	g, err := New(path).LoadGraph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{{From: "1", To: "2"}}, g.Edges)
}

func TestSnapshot_Errors(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.json")).LoadGraph(context.Background())
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = New(path).LoadGraph(context.Background())
	assert.ErrorContains(t, err, "json")
}

func TestDecode_EmptyYAML(t *testing.T) {
	g, err := Decode([]byte(""), false)
	require.NoError(t, err)
	assert.True(t, g.IsEmpty())
}

func TestSnapshot_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.yaml")
	require.NoError(t, Save(path, sample()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := New(path, WithDebounce(20*time.Millisecond)).Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, Save(path, domain.Graph{}))

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification")
	}

	cancel()
	assert.Eventually(t, func() bool {
		_, open := <-changes
		return !open
	}, time.Second, 10*time.Millisecond)
}
