package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/minhvule/teacart/pkg/logger"
	"github.com/minhvule/teacart/pkg/metrics"
)

// Manager hands out one Store per customer session and warm-starts new ones
// from the persister.
type Manager struct {
	backend   BackendClient
	persister Persister
	logg      *logger.Logger
	metrics   *metrics.CartMetrics

	mu     sync.Mutex
	stores map[string]*Store
}

func NewManager(backend BackendClient, persister Persister, logg *logger.Logger, cartMetrics *metrics.CartMetrics) (*Manager, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend client is required")
	}
	return &Manager{
		backend:   backend,
		persister: persister,
		logg:      logg,
		metrics:   cartMetrics,
		stores:    map[string]*Store{},
	}, nil
}

// StoreFor returns the cart store bound to the session, creating and
// warm-starting it on first use. The store starts authenticated because a
// session only exists behind a verified token.
func (m *Manager) StoreFor(ctx context.Context, sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	m.mu.Lock()
	if store, ok := m.stores[sessionID]; ok {
		m.mu.Unlock()
		return store, nil
	}
	m.mu.Unlock()

	store, err := NewStore(sessionID, m.backend, m.persister, m.logg, m.metrics)
	if err != nil {
		return nil, err
	}
	store.authenticated = true

	if m.persister != nil {
		state, err := m.persister.Load(ctx, sessionID)
		if err != nil {
			if m.logg != nil {
				m.logg.Warn(m.logg.WithSessionID(ctx, sessionID), "cart.warm_start_failed")
			}
		} else if state != nil {
			store.restore(*state)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.stores[sessionID]; ok {
		return existing, nil
	}
	m.stores[sessionID] = store
	return store, nil
}

// RevokeSession tears down a session: the auth gate drops, cart state wipes
// and the warm-start cache entry is deleted.
func (m *Manager) RevokeSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	store, ok := m.stores[sessionID]
	delete(m.stores, sessionID)
	m.mu.Unlock()

	if ok {
		return store.SetAuthenticated(ctx, false)
	}
	if m.persister != nil {
		return m.persister.Delete(ctx, sessionID)
	}
	return nil
}
