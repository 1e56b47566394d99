package actvis_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/actvis"
	"github.com/aretw0/actvis/pkg/adapters/recorder"
	"github.com/aretw0/actvis/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu      sync.Mutex
	graphs  map[string]domain.Graph
	actions []domain.ActionInfo
	err     error
	entries []string
}

func (f *fakeSource) FetchGraph(_ context.Context, _ string, entry string) (domain.Graph, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	if f.err != nil {
		return domain.Graph{}, f.err
	}
	return f.graphs[entry], nil
}

func (f *fakeSource) ListActions(context.Context, string) ([]domain.ActionInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.actions, nil
}

func twoNodes() domain.Graph {
	return domain.Graph{
		Nodes: []domain.Node{
			{ID: "1", Name: "fetch", Type: domain.NodeTypeAtomic, GX: 0, GY: 0},
			{ID: "2", Name: "store", Type: domain.NodeTypeAtomic, GX: 0, GY: 1},
		},
		Edges: []domain.Edge{{From: "1", To: "2"}, {From: "1", To: "99"}},
	}
}

func TestEngine_LoadSummary(t *testing.T) {
	eng := actvis.New()
	sum := eng.Load(twoNodes())
	assert.Equal(t, actvis.LoadSummary{Nodes: 2, Edges: 1, Dropped: 1}, sum)
	assert.Len(t, eng.Snapshot().Nodes, 2)
}

func TestEngine_LoadFromSource(t *testing.T) {
	src := &fakeSource{graphs: map[string]domain.Graph{"": twoNodes()}}
	var calls []string
	eng := actvis.New(
		actvis.WithSource(src),
		actvis.WithLifecycleHooks(domain.LifecycleHooks{
			OnSourceCall: func(e *domain.SourceEvent) { calls = append(calls, e.Operation) },
		}),
	)

	sum, err := eng.LoadFromSource(context.Background(), "program", "")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Nodes)
	assert.Equal(t, []string{"fetch_graph"}, calls)
}

func TestEngine_FailedFetchKeepsScene(t *testing.T) {
	src := &fakeSource{graphs: map[string]domain.Graph{"": twoNodes()}}
	eng := actvis.New(actvis.WithSource(src))
	_, err := eng.LoadFromSource(context.Background(), "program", "")
	require.NoError(t, err)

	src.err = domain.ErrSourceRejected
	_, err = eng.LoadFromSource(context.Background(), "broken", "")
	assert.ErrorIs(t, err, domain.ErrSourceRejected)
	assert.Equal(t, 2, eng.State().Nodes)
}

func TestEngine_NoSourceConfigured(t *testing.T) {
	eng := actvis.New()
	_, err := eng.LoadFromSource(context.Background(), "x", "")
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	_, err = eng.ListActions(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestEngine_OpenAction(t *testing.T) {
	src := &fakeSource{graphs: map[string]domain.Graph{"Deploy": twoNodes()}}
	eng := actvis.New(actvis.WithSource(src))

	_, err := eng.OpenAction(context.Background(), "program", domain.ActionInfo{
		Name: "Deploy", Type: domain.NodeTypeAction, HasActivity: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Deploy"}, src.entries)
	assert.Equal(t, 2, eng.State().Nodes)

	_, err = eng.OpenAction(context.Background(), "program", domain.ActionInfo{
		Name: "Ping", Type: domain.NodeTypeAtomic,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, eng.State().Nodes, "atomic actions clear the scene")
	assert.Len(t, src.entries, 1, "atomic actions never reach the source")
}

func TestEngine_ListActions(t *testing.T) {
	src := &fakeSource{actions: []domain.ActionInfo{{Name: "Deploy", Type: domain.NodeTypeAction, HasActivity: true}}}
	eng := actvis.New(actvis.WithCatalog(src))

	actions, err := eng.ListActions(context.Background(), "program")
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.True(t, actions[0].IsCompound())

	src.err = errors.New("boom")
	_, err = eng.ListActions(context.Background(), "program")
	assert.Error(t, err)
}

func TestEngine_ClickNotifiesListener(t *testing.T) {
	var got domain.Selection
	eng := actvis.New(
		actvis.WithCanvasSize(400, 400),
		actvis.WithSelectionListener(func(s domain.Selection) { got = s }),
	)
	eng.Load(twoNodes())

	st := eng.State()
	x := st.Transform.OffsetX
	y := st.Transform.OffsetY
	eng.HandleInput(domain.PointerDown{X: x, Y: y})
	res := eng.HandleInput(domain.PointerUp{X: x, Y: y})

	assert.True(t, res.SelectionChanged)
	assert.Equal(t, "Node: fetch, Type: atomic", got.Message())
}

func TestEngine_ListenerMayCallBackIntoEngine(t *testing.T) {
	var seen []domain.ViewState
	var eng *actvis.Engine
	eng = actvis.New(
		actvis.WithCanvasSize(400, 400),
		actvis.WithSelectionListener(func(domain.Selection) {
			eng.Draw(recorder.New())
			seen = append(seen, eng.State())
		}),
	)
	eng.Load(twoNodes())
	st := eng.State()

	done := make(chan struct{})
	go func() {
		defer close(done)
		eng.HandleInput(domain.PointerDown{X: st.Transform.OffsetX, Y: st.Transform.OffsetY})
		eng.HandleInput(domain.PointerUp{X: st.Transform.OffsetX, Y: st.Transform.OffsetY})
		eng.Load(twoNodes())
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener calling into the engine blocked")
	}
	require.Len(t, seen, 2)
	assert.Equal(t, domain.NodeID("1"), seen[0].Selected, "listener sees the state after the click")
	assert.Empty(t, seen[1].Selected, "listener sees the cleared selection after a reload")
}

func TestEngine_DrawAndResize(t *testing.T) {
	eng := actvis.New()
	eng.Load(twoNodes())

	res := eng.HandleInput(domain.Resize{Width: 320, Height: 200})
	assert.True(t, res.Redraw)
	w, h := eng.Size()
	assert.Equal(t, 320.0, w)
	assert.Equal(t, 200.0, h)

	cv := recorder.New()
	stats := eng.Draw(cv)
	assert.Equal(t, 2, stats.Shapes)
	assert.Equal(t, 1, stats.Segments)

	require.True(t, eng.Refit())
	assert.LessOrEqual(t, eng.State().Transform.Scale, 1.0)
}

func TestEngine_ConcurrentUse(t *testing.T) {
	eng := actvis.New(actvis.WithSource(&fakeSource{graphs: map[string]domain.Graph{"": twoNodes()}}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				switch (i + j) % 4 {
				case 0:
					eng.HandleInput(domain.PointerMove{X: float64(j), Y: float64(i)})
				case 1:
					eng.Draw(recorder.New())
				case 2:
					_, _ = eng.LoadFromSource(context.Background(), "p", "")
				default:
					eng.HandleInput(domain.Wheel{X: 10, Y: 10, DeltaY: -1})
				}
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 2, eng.State().Nodes)
}
