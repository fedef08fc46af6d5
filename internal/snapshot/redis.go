package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/minhvule/teacart/internal/cart"
	pkgredis "github.com/minhvule/teacart/pkg/redis"
)

// stateStore is the slice of the redis client the cache uses.
type stateStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartStateKey(sessionID string) string
}

// RedisCache keeps each session's cart state under one namespaced key.
type RedisCache struct {
	store stateStore
	ttl   time.Duration
}

func NewRedisCache(store stateStore, ttl time.Duration) (*RedisCache, error) {
	if store == nil {
		return nil, fmt.Errorf("redis store is required")
	}
	return &RedisCache{store: store, ttl: ttl}, nil
}

func (c *RedisCache) Save(ctx context.Context, sessionID string, state cart.PersistedState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding cart state: %w", err)
	}
	if err := c.store.Set(ctx, c.store.CartStateKey(sessionID), payload, c.ttl); err != nil {
		return fmt.Errorf("writing cart state: %w", err)
	}
	return nil
}

func (c *RedisCache) Load(ctx context.Context, sessionID string) (*cart.PersistedState, error) {
	raw, err := c.store.Get(ctx, c.store.CartStateKey(sessionID))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cart state: %w", err)
	}

	var state cart.PersistedState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		// A corrupt entry is a cache problem, not a user problem. Drop it and
		// start the session cold.
		_ = c.store.Del(ctx, c.store.CartStateKey(sessionID))
		return nil, nil
	}
	return &state, nil
}

func (c *RedisCache) Delete(ctx context.Context, sessionID string) error {
	if err := c.store.Del(ctx, c.store.CartStateKey(sessionID)); err != nil {
		return fmt.Errorf("deleting cart state: %w", err)
	}
	return nil
}
