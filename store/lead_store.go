// store/lead_store.go
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/leadflow/leadflow_backend/models"
)

// Gateway is the remote call surface the store depends on. The MongoDB
// repository implements it; tests substitute fakes.
type Gateway interface {
	FetchLeads(ctx context.Context, tenantID primitive.ObjectID) ([]models.Lead, error)
	InsertLead(ctx context.Context, lead models.Lead) (models.Lead, error)
	UpdateLead(ctx context.Context, leadID primitive.ObjectID, update models.LeadUpdate) error
	DeleteLead(ctx context.Context, leadID primitive.ObjectID) error
}

// LeadStore is the single in-memory source of truth for one tenant's leads
// and the boundary between handlers and the remote gateway.
//
// Mutations follow a two-phase shape: apply locally, commit remotely, and on
// rejection revert the local change. The original client applied status drags
// optimistically and never rolled back on failure; here the rollback is part
// of the contract.
type LeadStore struct {
	mu       sync.RWMutex
	gateway  Gateway
	tenantID primitive.ObjectID
	leads    []models.Lead
	loading  bool
	loadErr  error
}

// NewLeadStore creates an empty store bound to one tenant.
func NewLeadStore(gateway Gateway, tenantID primitive.ObjectID) *LeadStore {
	return &LeadStore{
		gateway:  gateway,
		tenantID: tenantID,
		leads:    []models.Lead{},
	}
}

// TenantID returns the tenant this store is scoped to.
func (s *LeadStore) TenantID() primitive.ObjectID {
	return s.tenantID
}

// FetchAll replaces the full in-memory collection with the gateway's view.
// On failure the collection is left empty, not preserved: readers see an
// empty board rather than stale rows from before the failed reload.
func (s *LeadStore) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	leads, err := s.gateway.FetchLeads(ctx, s.tenantID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.leads = []models.Lead{}
		s.loadErr = err
		return err
	}
	s.leads = leads
	s.loadErr = nil
	return nil
}

// Create validates nothing itself (required fields are the form's job),
// issues the insert, and on success prepends the new lead with an empty note
// list. A rejected insert leaves local state untouched.
func (s *LeadStore) Create(ctx context.Context, lead models.Lead) (models.Lead, error) {
	lead.TenantID = s.tenantID
	created, err := s.gateway.InsertLead(ctx, lead)
	if err != nil {
		return models.Lead{}, err
	}
	created.Notes = []models.LeadNote{}

	s.mu.Lock()
	s.leads = append([]models.Lead{created}, s.leads...)
	s.mu.Unlock()
	return created, nil
}

// Update applies the partial update locally first, then commits it through
// the gateway. If the commit is rejected, the previous lead state is
// restored and the error returned; callers can re-render from the reverted
// snapshot.
func (s *LeadStore) Update(ctx context.Context, leadID primitive.ObjectID, update models.LeadUpdate) (models.Lead, error) {
	s.mu.Lock()
	idx := s.indexOf(leadID)
	if idx < 0 {
		s.mu.Unlock()
		return models.Lead{}, ErrLeadNotFound
	}
	previous := s.leads[idx]
	update.ApplyTo(&s.leads[idx], time.Now())
	applied := s.leads[idx]
	s.mu.Unlock()

	if err := s.gateway.UpdateLead(ctx, leadID, update); err != nil {
		s.mu.Lock()
		// The lead may have moved or vanished while the commit was in flight
		if idx := s.indexOf(leadID); idx >= 0 {
			s.leads[idx] = previous
		}
		s.mu.Unlock()
		return models.Lead{}, err
	}

	return applied, nil
}

// UpdateNotes replaces a lead's note list in the local view only. Note
// persistence happens at the dialog level, before this refresh; the store
// just keeps renders consistent with what was written.
func (s *LeadStore) UpdateNotes(leadID primitive.ObjectID, notes []models.LeadNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(leadID)
	if idx < 0 {
		return ErrLeadNotFound
	}
	s.leads[idx].Notes = notes
	s.leads[idx].UpdatedAt = time.Now()
	return nil
}

// Delete issues the remote delete first; only a confirmed delete removes the
// lead locally. On failure the lead stays present.
func (s *LeadStore) Delete(ctx context.Context, leadID primitive.ObjectID) error {
	if err := s.gateway.DeleteLead(ctx, leadID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(leadID); idx >= 0 {
		s.leads = append(s.leads[:idx], s.leads[idx+1:]...)
	}
	return nil
}

// Leads returns a snapshot of the collection in fetch order.
func (s *LeadStore) Leads() []models.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]models.Lead, len(s.leads))
	copy(snapshot, s.leads)
	return snapshot
}

// Get returns one lead by id.
func (s *LeadStore) Get(leadID primitive.ObjectID) (models.Lead, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(leadID); idx >= 0 {
		return s.leads[idx], true
	}
	return models.Lead{}, false
}

// Loading reports whether a FetchAll is in flight.
func (s *LeadStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LoadErr returns the error flag from the last FetchAll.
func (s *LeadStore) LoadErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// indexOf must be called with the lock held.
func (s *LeadStore) indexOf(leadID primitive.ObjectID) int {
	for i := range s.leads {
		if s.leads[i].ID == leadID {
			return i
		}
	}
	return -1
}

// SortedStatuses returns the distinct statuses present in the store, in
// pipeline order. Mostly useful for reports.
func (s *LeadStore) SortedStatuses() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	present := make(map[string]bool)
	for _, lead := range s.leads {
		present[lead.Status] = true
	}

	statuses := make([]string, 0, len(present))
	for _, status := range models.LeadStatuses {
		if present[status] {
			statuses = append(statuses, status)
		}
	}

	// Any out-of-enumeration status would surface here; keep output stable
	extra := make([]string, 0)
	for status := range present {
		if !models.ValidStatus(status) {
			extra = append(extra, status)
		}
	}
	sort.Strings(extra)
	return append(statuses, extra...)
}
