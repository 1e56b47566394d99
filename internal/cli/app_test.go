package cli_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/actvis/internal/cli"
	"github.com/aretw0/actvis/internal/config"
	"github.com/aretw0/actvis/pkg/adapters/file"
	"github.com/aretw0/actvis/pkg/domain"
	"github.com/aretw0/actvis/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() domain.Graph {
	return domain.Graph{
		Nodes: []domain.Node{
			{ID: "1", Name: "fetch", Type: domain.NodeTypeAtomic, GX: 0, GY: 0},
			{ID: "2", Name: "store", Type: domain.NodeTypeAtomic, GX: 1, GY: 0},
		},
		Edges: []domain.Edge{{From: "1", To: "2"}},
	}
}

func TestNewApp_Defaults(t *testing.T) {
	app, err := cli.NewAppFromConfig(config.Default(), "", cli.Options{SourceURL: "http://graphs:9000"})
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, "http://graphs:9000", app.Config.Source.URL)
	assert.Nil(t, app.Metrics)
	assert.Same(t, app.Catalog, app.Source)

	eng := app.NewEngine()
	w, h := eng.Size()
	assert.Equal(t, 1024.0, w)
	assert.Equal(t, 768.0, h)
}

func TestNewApp_MemoryCacheAndMetrics(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Backend = config.CacheMemory
	cfg.Metrics.Enabled = true

	app, err := cli.NewAppFromConfig(cfg, "", cli.Options{})
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &source.Cached{}, app.Source)
	require.NotNil(t, app.Metrics)
	assert.NotNil(t, app.Hooks().OnSceneLoad)
}

func TestNewApp_RedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Cache.Backend = config.CacheRedis
	cfg.Cache.Redis.Addr = mr.Addr()

	app, err := cli.NewAppFromConfig(cfg, "", cli.Options{})
	require.NoError(t, err)
	assert.IsType(t, &source.Cached{}, app.Source)
	assert.NoError(t, app.Close())
}

func TestNewApp_RedisUnavailableFallsBack(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Backend = config.CacheRedis
	cfg.Cache.Redis.Addr = "127.0.0.1:1"

	app, err := cli.NewAppFromConfig(cfg, "", cli.Options{})
	require.NoError(t, err)
	assert.Same(t, app.Catalog, app.Source)
}

func TestNewApp_BadPalette(t *testing.T) {
	cfg := config.Default()
	cfg.Palette = map[string]string{"atomic": "not-a-colour"}
	_, err := cli.NewAppFromConfig(cfg, "", cli.Options{})
	assert.Error(t, err)
}

func TestApp_LoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, file.Save(path, sampleGraph()))

	app, err := cli.NewAppFromConfig(config.Default(), "", cli.Options{})
	require.NoError(t, err)

	eng := app.NewEngine()
	summary, err := app.Load(context.Background(), eng, cli.GraphInput{File: path})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Nodes)
	assert.Equal(t, 1, summary.Edges)

	_, err = app.Load(context.Background(), eng, cli.GraphInput{})
	assert.Error(t, err)
}

func TestApp_BuildServerSeedsViewsFromSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, file.Save(path, sampleGraph()))

	app, err := cli.NewAppFromConfig(config.Default(), "", cli.Options{})
	require.NoError(t, err)

	server, views := app.BuildServer(cli.ServeOptions{Snapshot: path})
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/views", "application/json", strings.NewReader(`{"id": "v"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	eng, err := views.Get("v")
	require.NoError(t, err)
	assert.Equal(t, 2, eng.State().Nodes)
}
