package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/actvis/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Cache implements ports.GraphCache using Redis. Graphs are stored as JSON
// under prefix+key with the requested TTL.
type Cache struct {
	client *backend.Client
	prefix string
}

type Option func(*Cache)

// WithPrefix sets the key prefix for cached graphs.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// New creates a new Redis cache with options.
func New(address, password string, db int, opts ...Option) *Cache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	cache := &Cache{
		client: client,
		prefix: "actvis:graph:",
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

// Get retrieves a graph from Redis.
func (c *Cache) Get(ctx context.Context, key string) (domain.Graph, error) {
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.Graph{}, domain.ErrCacheMiss
		}
		return domain.Graph{}, fmt.Errorf("failed to get from redis: %w", err)
	}

	var g domain.Graph
	if err := json.Unmarshal(val, &g); err != nil {
		return domain.Graph{}, fmt.Errorf("failed to unmarshal graph: %w", err)
	}
	return g, nil
}

// Set stores the graph. Use 0 for no expiration.
func (c *Cache) Set(ctx context.Context, key string, g domain.Graph, ttl time.Duration) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal graph: %w", err)
	}
	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Delete removes the cached graph.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
