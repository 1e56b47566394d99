package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/actvis/pkg/domain"
)

type entry struct {
	graph   domain.Graph
	expires time.Time
}

// Cache implements ports.GraphCache in memory.
// Safe for concurrent use.
type Cache struct {
	data map[string]entry
	mu   sync.RWMutex
	now  func() time.Time
}

// NewCache creates a new in-memory graph cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// Get returns a copy of the cached graph.
func (c *Cache) Get(ctx context.Context, key string) (domain.Graph, error) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	if !ok {
		return domain.Graph{}, domain.ErrCacheMiss
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		_ = c.Delete(ctx, key)
		return domain.Graph{}, domain.ErrCacheMiss
	}
	return clone(e.graph), nil
}

// Set stores a copy of g so later mutations by the caller do not leak in.
func (c *Cache) Set(ctx context.Context, key string, g domain.Graph, ttl time.Duration) error {
	e := entry{graph: clone(g)}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = e
	return nil
}

// Delete removes the entry.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

func clone(g domain.Graph) domain.Graph {
	out := domain.Graph{
		Nodes: append([]domain.Node(nil), g.Nodes...),
		Edges: append([]domain.Edge(nil), g.Edges...),
	}
	for i := range out.Nodes {
		if out.Nodes[i].BBox != nil {
			b := *out.Nodes[i].BBox
			out.Nodes[i].BBox = &b
		}
	}
	return out
}
