package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/actvis"
	"github.com/aretw0/actvis/pkg/adapters/file"
	actvishttp "github.com/aretw0/actvis/pkg/adapters/http"
	"github.com/aretw0/actvis/pkg/session"
	"golang.org/x/sync/errgroup"
)

// ServeOptions configure the viewport HTTP server.
type ServeOptions struct {
	Port int
	// Snapshot, when set, is loaded into every new view and reloaded into
	// all views whenever the file changes.
	Snapshot string
	// IdleTimeout expires views not used for that long. Zero keeps them.
	IdleTimeout time.Duration
}

// BuildServer wires the session manager and the HTTP server.
func (a *App) BuildServer(opts ServeOptions) (*actvishttp.Server, *session.Manager) {
	var snap *file.Snapshot
	if opts.Snapshot != "" {
		snap = file.New(opts.Snapshot, file.WithLogger(a.Logger))
	}

	views := session.NewManager(func(id string) *actvis.Engine {
		eng := a.NewEngine()
		if snap != nil {
			a.reload(context.Background(), snap, eng, id)
		}
		return eng
	}, session.WithLogger(a.Logger))

	srvOpts := []actvishttp.Option{
		actvishttp.WithCatalog(a.Catalog),
		actvishttp.WithLogger(a.Logger),
	}
	if a.Metrics != nil {
		srvOpts = append(srvOpts, actvishttp.WithMetrics(a.Metrics.Handler()))
	}
	return actvishttp.NewServer(views, srvOpts...), views
}

func (a *App) reload(ctx context.Context, snap *file.Snapshot, eng *actvis.Engine, viewID string) (actvis.LoadSummary, bool) {
	g, err := snap.LoadGraph(ctx)
	if err != nil {
		a.Logger.Error("failed to load snapshot", "path", snap.Path(), "view_id", viewID, "err", err)
		return actvis.LoadSummary{}, false
	}
	return eng.Load(g), true
}

// RunServe serves the viewport API until ctx is cancelled.
func (a *App) RunServe(ctx context.Context, opts ServeOptions) error {
	port := opts.Port
	if port == 0 {
		port = a.Config.Server.Port
	}
	server, views := a.BuildServer(opts)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: server.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("starting actvis server", "address", srv.Addr, "source", a.Config.Source.URL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warn("graceful shutdown did not complete", "err", err)
			return srv.Close()
		}
		a.Logger.Info("actvis server stopped gracefully")
		return nil
	})

	if opts.Snapshot != "" {
		g.Go(func() error {
			return a.watchSnapshot(ctx, opts.Snapshot, server, views)
		})
	}

	if opts.IdleTimeout > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(opts.IdleTimeout / 2)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					for _, id := range views.Prune(opts.IdleTimeout) {
						server.Publish(id, actvishttp.Notification{Type: "delete"})
					}
				}
			}
		})
	}

	return g.Wait()
}

// watchSnapshot reloads every view when the snapshot file changes.
func (a *App) watchSnapshot(ctx context.Context, path string, server *actvishttp.Server, views *session.Manager) error {
	snap := file.New(path, file.WithLogger(a.Logger))
	changes, err := snap.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch snapshot: %w", err)
	}
	for range changes {
		a.Logger.Info("snapshot changed, reloading views", "path", path)
		for _, id := range views.List() {
			eng, err := views.Get(id)
			if err != nil {
				continue
			}
			if summary, ok := a.reload(ctx, snap, eng, id); ok {
				server.Publish(id, actvishttp.Notification{Type: "scene", Scene: &summary})
			}
		}
	}
	return nil
}
