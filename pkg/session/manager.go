package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/actvis"
	"github.com/aretw0/actvis/internal/logging"
	"github.com/aretw0/actvis/pkg/domain"
	"github.com/google/uuid"
)

// ErrViewExists is returned when creating a view under an ID already in use.
var ErrViewExists = errors.New("view already exists")

// Factory builds the engine for a new view.
type Factory func(id string) *actvis.Engine

// entry holds a view and the time it was last accessed.
type entry struct {
	engine   *actvis.Engine
	lastUsed time.Time
}

// Manager is a concurrency-safe registry of views.
type Manager struct {
	factory Factory

	mu    sync.Mutex
	views map[string]*entry

	now    func() time.Time
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClock overrides the time source used for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager. A nil factory builds engines with defaults.
func NewManager(factory Factory, opts ...Option) *Manager {
	if factory == nil {
		factory = func(string) *actvis.Engine { return actvis.New() }
	}
	m := &Manager{
		factory: factory,
		views:   make(map[string]*entry),
		now:     time.Now,
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create registers a new view. An empty id gets a random UUID.
func (m *Manager) Create(id string) (string, *actvis.Engine, error) {
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.views[id]; exists {
		return "", nil, fmt.Errorf("%w: %s", ErrViewExists, id)
	}
	eng := m.factory(id)
	m.views[id] = &entry{engine: eng, lastUsed: m.now()}
	m.logger.Debug("view created", "view_id", id)
	return id, eng, nil
}

// GetOrCreate returns the view registered under id, creating it if needed.
func (m *Manager) GetOrCreate(id string) *actvis.Engine {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.views[id]; ok {
		e.lastUsed = m.now()
		return e.engine
	}
	eng := m.factory(id)
	m.views[id] = &entry{engine: eng, lastUsed: m.now()}
	m.logger.Debug("view created", "view_id", id)
	return eng
}

// Get returns the view registered under id.
func (m *Manager) Get(id string) (*actvis.Engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.views[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrViewNotFound, id)
	}
	e.lastUsed = m.now()
	return e.engine, nil
}

// Delete removes the view. Deleting an unknown view returns ErrViewNotFound.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.views[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrViewNotFound, id)
	}
	delete(m.views, id)
	m.logger.Debug("view deleted", "view_id", id)
	return nil
}

// List returns the registered view IDs in lexical order.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.views))
	for id := range m.views {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered views.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.views)
}

// Prune removes views not accessed within maxIdle and returns their IDs.
func (m *Manager) Prune(maxIdle time.Duration) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxIdle)
	var removed []string
	for id, e := range m.views {
		if e.lastUsed.Before(cutoff) {
			delete(m.views, id)
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)
	if len(removed) > 0 {
		m.logger.Info("pruned idle views", "count", len(removed))
	}
	return removed
}
