package ports

import (
	"context"
	"time"

	"github.com/aretw0/actvis/pkg/domain"
)

// GraphCache stores graph responses keyed by an opaque request digest.
type GraphCache interface {
	// Get returns domain.ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string) (domain.Graph, error)

	// Set stores g under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, g domain.Graph, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
