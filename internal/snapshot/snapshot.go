// Package snapshot persists warm-start cart state per session. Two backends
// implement the same contract: Redis for deployments with a cache tier, SQL
// for single-node setups. Only durable cart data is stored; loading flags and
// transient errors never reach the cache.
package snapshot

import (
	"context"

	"github.com/minhvule/teacart/internal/cart"
)

// Cache is the persistence contract the cart core consumes.
type Cache interface {
	Save(ctx context.Context, sessionID string, state cart.PersistedState) error
	Load(ctx context.Context, sessionID string) (*cart.PersistedState, error)
	Delete(ctx context.Context, sessionID string) error
}
