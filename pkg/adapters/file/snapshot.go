// Package file loads graph snapshots from JSON or YAML files and watches them
// for changes.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/actvis/internal/dto"
	"github.com/aretw0/actvis/internal/logging"
	"github.com/aretw0/actvis/pkg/domain"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Snapshot is a graph stored in a single file. It implements
// ports.GraphLoader and ports.Watchable.
type Snapshot struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
}

// Option configures a Snapshot.
type Option func(*Snapshot)

// WithDebounce sets how long the file must be quiet before a reload is signalled.
func WithDebounce(d time.Duration) Option {
	return func(s *Snapshot) {
		s.debounce = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Snapshot) {
		s.logger = logger
	}
}

// New returns a snapshot reading path. The format follows the extension:
// .json is JSON, anything else is YAML.
func New(path string, opts ...Option) *Snapshot {
	s := &Snapshot{
		path:     path,
		debounce: 200 * time.Millisecond,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the file path.
func (s *Snapshot) Path() string { return s.path }

// LoadGraph reads and decodes the file.
func (s *Snapshot) LoadGraph(ctx context.Context) (domain.Graph, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.Graph{}, fmt.Errorf("failed to read graph file: %w", err)
	}
	return Decode(data, isJSON(s.path))
}

// Decode parses a JSON (asJSON) or YAML graph document.
func Decode(data []byte, asJSON bool) (domain.Graph, error) {
	var raw any
	if asJSON {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return domain.Graph{}, fmt.Errorf("failed to parse graph json: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.Graph{}, fmt.Errorf("failed to parse graph yaml: %w", err)
	}
	if raw == nil {
		return domain.Graph{}, nil
	}
	return dto.DecodeGraph(raw)
}

// Save writes g to path, choosing the format from the extension.
func Save(path string, g domain.Graph) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(g, "", "  ")
	} else {
		data, err = yaml.Marshal(g)
	}
	if err != nil {
		return fmt.Errorf("failed to encode graph: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Watch signals on the returned channel whenever the file is written or
// replaced, after the debounce interval. The channel closes with ctx.
func (s *Snapshot) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory containing the file.
	// This handles cases where the file is replaced (e.g., by editors).
	dir := filepath.Dir(s.path)
	name := filepath.Base(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	s.logger.Debug("watching graph file", "path", s.path)

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer watcher.Close()

		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != name {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(s.debounce)
				fire = timer.C

			case <-fire:
				fire = nil
				s.logger.Info("graph file changed", "path", s.path)
				select {
				case out <- struct{}{}:
				default:
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("watcher error", "path", s.path, "err", err)

			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			}
		}
	}()
	return out, nil
}
