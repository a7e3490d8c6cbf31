// store/manager.go
package store

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrLeadNotFound is returned when the referenced lead is not in the store.
var ErrLeadNotFound = errors.New("lead not found")

// Manager keeps one LeadStore per tenant. Switching the active tenant always
// goes through Reload so the new scope starts from a fresh fetch; there is no
// cross-tenant merge.
type Manager struct {
	mu      sync.Mutex
	gateway Gateway
	stores  map[primitive.ObjectID]*LeadStore
}

func NewManager(gateway Gateway) *Manager {
	return &Manager{
		gateway: gateway,
		stores:  make(map[primitive.ObjectID]*LeadStore),
	}
}

// ForTenant returns the tenant's store, fetching it on first use. A store
// whose last fetch failed is refetched rather than served: the failure empties
// the board for the request that hit it, but repeating the request retries
// instead of reading the stale empty collection.
func (m *Manager) ForTenant(ctx context.Context, tenantID primitive.ObjectID) (*LeadStore, error) {
	m.mu.Lock()
	s, ok := m.stores[tenantID]
	if !ok {
		s = NewLeadStore(m.gateway, tenantID)
		m.stores[tenantID] = s
	}
	m.mu.Unlock()

	if !ok || s.LoadErr() != nil {
		if err := s.FetchAll(ctx); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Reload forces a full fetch for the tenant, replacing whatever was cached.
func (m *Manager) Reload(ctx context.Context, tenantID primitive.ObjectID) (*LeadStore, error) {
	m.mu.Lock()
	s, ok := m.stores[tenantID]
	if !ok {
		s = NewLeadStore(m.gateway, tenantID)
		m.stores[tenantID] = s
	}
	m.mu.Unlock()

	if err := s.FetchAll(ctx); err != nil {
		return s, err
	}
	return s, nil
}

// Evict drops the tenant's cached store.
func (m *Manager) Evict(tenantID primitive.ObjectID) {
	m.mu.Lock()
	delete(m.stores, tenantID)
	m.mu.Unlock()
}
