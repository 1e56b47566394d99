package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/actvis/internal/logging"
	"github.com/aretw0/actvis/pkg/domain"
	"github.com/aretw0/actvis/pkg/ports"
)

// Cached is a GraphSource that serves repeated (text, entry) requests from a
// GraphCache. Cache failures are logged and fall through to the inner source.
type Cached struct {
	inner  ports.GraphSource
	cache  ports.GraphCache
	ttl    time.Duration
	logger *slog.Logger
}

// CachedOption configures a Cached source.
type CachedOption func(*Cached)

// WithTTL sets how long entries live. Zero keeps them until evicted.
func WithTTL(ttl time.Duration) CachedOption {
	return func(c *Cached) {
		c.ttl = ttl
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) CachedOption {
	return func(c *Cached) {
		c.logger = logger
	}
}

// NewCached wraps inner with cache.
func NewCached(inner ports.GraphSource, cache ports.GraphCache, opts ...CachedOption) *Cached {
	c := &Cached{inner: inner, cache: cache, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key is the cache key of a request: the hex sha256 of entry and text.
func Key(text, entry string) string {
	h := sha256.New()
	h.Write([]byte(entry))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// FetchGraph returns the cached graph or fetches and stores it.
func (c *Cached) FetchGraph(ctx context.Context, text, entry string) (domain.Graph, error) {
	key := Key(text, entry)

	g, err := c.cache.Get(ctx, key)
	if err == nil {
		c.logger.Debug("graph cache hit", "key", key[:12], "entry", entry)
		return g, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		c.logger.Warn("graph cache read failed", "key", key[:12], "err", err)
	}

	g, err = c.inner.FetchGraph(ctx, text, entry)
	if err != nil {
		return domain.Graph{}, err
	}
	if err := c.cache.Set(ctx, key, g, c.ttl); err != nil {
		c.logger.Warn("graph cache write failed", "key", key[:12], "err", err)
	}
	return g, nil
}

// ListActions passes through when the inner source is also a catalog.
func (c *Cached) ListActions(ctx context.Context, text string) ([]domain.ActionInfo, error) {
	cat, ok := c.inner.(ports.ActionCatalog)
	if !ok {
		return nil, domain.ErrSourceUnavailable
	}
	return cat.ListActions(ctx, text)
}
