package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/actvis"
	"github.com/aretw0/actvis/internal/config"
	"github.com/aretw0/actvis/pkg/adapters/file"
	actvishttp "github.com/aretw0/actvis/pkg/adapters/http"
	"github.com/aretw0/actvis/pkg/adapters/memory"
	"github.com/aretw0/actvis/pkg/adapters/redis"
	"github.com/aretw0/actvis/pkg/domain"
	"github.com/aretw0/actvis/pkg/observability"
	"github.com/aretw0/actvis/pkg/ports"
	"github.com/aretw0/actvis/pkg/source"
)

const pingTimeout = 2 * time.Second

// App carries everything the commands share: configuration, logger,
// metrics and the graph source stack.
type App struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger
	Metrics    *observability.Metrics

	Source  ports.GraphSource
	Catalog ports.ActionCatalog
	Palette actvis.Palette

	closers []func() error
}

// Options are the global flags.
type Options struct {
	ConfigPath string
	Debug      bool
	SourceURL  string
}

// NewApp loads the configuration and wires the source stack.
func NewApp(opts Options) (*App, error) {
	cfg, path, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewAppFromConfig(cfg, path, opts)
}

// NewAppFromConfig wires an App from an already loaded configuration.
func NewAppFromConfig(cfg *config.Config, path string, opts Options) (*App, error) {
	if opts.SourceURL != "" {
		cfg.Source.URL = opts.SourceURL
	}

	app := &App{
		Config:     cfg,
		ConfigPath: path,
		Logger:     createLogger(cfg.Log.Level, opts.Debug),
	}
	if cfg.Metrics.Enabled {
		app.Metrics = observability.NewMetrics()
	}

	palette, err := actvis.DefaultPalette().WithOverrides(cfg.Palette)
	if err != nil {
		return nil, fmt.Errorf("invalid palette: %w", err)
	}
	app.Palette = palette

	client := actvishttp.NewClient(cfg.Source.URL,
		actvishttp.WithTimeout(cfg.Source.Timeout),
		actvishttp.WithMaxTextSize(cfg.Source.MaxTextSize),
		actvishttp.WithClientLogger(app.Logger),
	)
	app.Catalog = client
	app.Source = client

	cache, err := app.newCache()
	if err != nil {
		return nil, err
	}
	if cache != nil {
		app.Source = source.NewCached(client, cache,
			source.WithTTL(cfg.Cache.TTL),
			source.WithLogger(app.Logger),
		)
	}

	if path != "" {
		app.Logger.Debug("config loaded", "path", path)
	}
	return app, nil
}

func (a *App) newCache() (ports.GraphCache, error) {
	switch a.Config.Cache.Backend {
	case config.CacheMemory:
		return memory.NewCache(), nil
	case config.CacheRedis:
		rc := a.Config.Cache.Redis
		cache := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithPrefix(rc.Prefix))
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		if err := cache.Ping(ctx); err != nil {
			// Keep running uncached: the graph service still answers.
			a.Logger.Warn("redis cache unavailable, continuing without cache", "addr", rc.Addr, "err", err)
			cache.Close()
			return nil, nil
		}
		a.closers = append(a.closers, cache.Close)
		return cache, nil
	}
	return nil, nil
}

// Close releases the cache connection, if any.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// Hooks returns the lifecycle hooks every engine of this process gets.
func (a *App) Hooks() domain.LifecycleHooks {
	hooks := observability.LogHooks(a.Logger)
	if a.Metrics != nil {
		hooks = observability.Chain(hooks, a.Metrics.Hooks())
	}
	return hooks
}

// NewEngine builds an engine configured from the App. Extra options are
// applied last.
func (a *App) NewEngine(extra ...actvis.Option) *actvis.Engine {
	opts := []actvis.Option{
		actvis.WithLogger(a.Logger),
		actvis.WithLifecycleHooks(a.Hooks()),
		actvis.WithGeometry(a.Config.Geometry),
		actvis.WithPalette(a.Palette),
		actvis.WithCanvasSize(a.Config.Canvas.Width, a.Config.Canvas.Height),
		actvis.WithSource(a.Source),
		actvis.WithCatalog(a.Catalog),
	}
	return actvis.New(append(opts, extra...)...)
}

// GraphInput names where a command takes its graph from: a snapshot file,
// or program text sent to the graph service.
type GraphInput struct {
	File     string
	TextFile string
	Entry    string
}

// Load installs the graph named by in into eng.
func (a *App) Load(ctx context.Context, eng *actvis.Engine, in GraphInput) (actvis.LoadSummary, error) {
	switch {
	case in.File != "":
		g, err := file.New(in.File).LoadGraph(ctx)
		if err != nil {
			return actvis.LoadSummary{}, err
		}
		return eng.Load(g), nil
	case in.TextFile != "":
		text, err := readText(in.TextFile)
		if err != nil {
			return actvis.LoadSummary{}, err
		}
		return eng.LoadFromSource(ctx, text, in.Entry)
	}
	return actvis.LoadSummary{}, errors.New("no graph given: use --file or --text")
}

// readText reads program text from path, or stdin for "-".
func readText(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read program text: %w", err)
	}
	return string(data), nil
}
