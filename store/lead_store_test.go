package store

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/leadflow/leadflow_backend/models"
)

// fakeGateway is an in-memory Gateway. Set failNext to reject the next
// mutating call.
type fakeGateway struct {
	leads    []models.Lead
	fetchErr error
	failNext error
	inserts  int
	updates  int
	deletes  int
}

func (g *fakeGateway) FetchLeads(ctx context.Context, tenantID primitive.ObjectID) ([]models.Lead, error) {
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	out := make([]models.Lead, len(g.leads))
	copy(out, g.leads)
	return out, nil
}

func (g *fakeGateway) InsertLead(ctx context.Context, lead models.Lead) (models.Lead, error) {
	g.inserts++
	if g.failNext != nil {
		err := g.failNext
		g.failNext = nil
		return models.Lead{}, err
	}
	if lead.ID.IsZero() {
		lead.ID = primitive.NewObjectID()
	}
	g.leads = append(g.leads, lead)
	return lead, nil
}

func (g *fakeGateway) UpdateLead(ctx context.Context, leadID primitive.ObjectID, update models.LeadUpdate) error {
	g.updates++
	if g.failNext != nil {
		err := g.failNext
		g.failNext = nil
		return err
	}
	return nil
}

func (g *fakeGateway) DeleteLead(ctx context.Context, leadID primitive.ObjectID) error {
	g.deletes++
	if g.failNext != nil {
		err := g.failNext
		g.failNext = nil
		return err
	}
	return nil
}

func seedLeads(n int) []models.Lead {
	leads := make([]models.Lead, 0, n)
	for i := 0; i < n; i++ {
		leads = append(leads, models.Lead{
			ID:     primitive.NewObjectID(),
			Name:   "Lead",
			Status: models.StatusNew,
			Value:  100,
		})
	}
	return leads
}

func TestFetchAllReplacesCollection(t *testing.T) {
	gateway := &fakeGateway{leads: seedLeads(3)}
	s := NewLeadStore(gateway, primitive.NewObjectID())

	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if got := len(s.Leads()); got != 3 {
		t.Fatalf("expected 3 leads, got %d", got)
	}
	if s.LoadErr() != nil {
		t.Fatalf("unexpected load error: %v", s.LoadErr())
	}
}

func TestFetchAllFailureLeavesEmptyCollection(t *testing.T) {
	gateway := &fakeGateway{leads: seedLeads(3)}
	s := NewLeadStore(gateway, primitive.NewObjectID())

	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}

	// A failed reload must not leave the previous rows visible
	gateway.fetchErr = errors.New("connection reset")
	if err := s.FetchAll(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
	if got := len(s.Leads()); got != 0 {
		t.Fatalf("expected empty collection after failed fetch, got %d leads", got)
	}
	if s.LoadErr() == nil {
		t.Fatal("expected load error flag to be set")
	}
	if s.Loading() {
		t.Fatal("loading flag should be cleared")
	}
}

func TestCreatePrependsOnSuccess(t *testing.T) {
	gateway := &fakeGateway{leads: seedLeads(2)}
	s := NewLeadStore(gateway, primitive.NewObjectID())
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}

	created, err := s.Create(context.Background(), models.Lead{Name: "Newest", Status: models.StatusNew})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Fatal("created lead should carry a persisted id")
	}
	if created.Notes == nil || len(created.Notes) != 0 {
		t.Fatal("created lead should start with an empty note list")
	}

	leads := s.Leads()
	if leads[0].ID != created.ID {
		t.Fatal("new lead should be first in the collection")
	}
	if len(leads) != 3 {
		t.Fatalf("expected 3 leads, got %d", len(leads))
	}
}

func TestCreateFailureLeavesStateUntouched(t *testing.T) {
	gateway := &fakeGateway{leads: seedLeads(2)}
	s := NewLeadStore(gateway, primitive.NewObjectID())
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}

	gateway.failNext = errors.New("insert rejected")
	if _, err := s.Create(context.Background(), models.Lead{Name: "Doomed"}); err == nil {
		t.Fatal("expected create error")
	}
	if got := len(s.Leads()); got != 2 {
		t.Fatalf("failed create must not change the collection, got %d leads", got)
	}
}

func TestUpdateAppliesAndCommits(t *testing.T) {
	gateway := &fakeGateway{leads: seedLeads(2)}
	s := NewLeadStore(gateway, primitive.NewObjectID())
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}

	target := s.Leads()[1]
	status := models.StatusWon
	updated, err := s.Update(context.Background(), target.ID, models.LeadUpdate{Status: &status})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Status != models.StatusWon {
		t.Fatalf("expected status won, got %s", updated.Status)
	}
	if !updated.UpdatedAt.After(target.UpdatedAt) {
		t.Fatal("UpdatedAt should be refreshed")
	}

	got, ok := s.Get(target.ID)
	if !ok || got.Status != models.StatusWon {
		t.Fatal("local collection should reflect the committed update")
	}
}

func TestUpdateRollsBackOnRejection(t *testing.T) {
	gateway := &fakeGateway{leads: seedLeads(2)}
	s := NewLeadStore(gateway, primitive.NewObjectID())
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}

	target := s.Leads()[0]
	gateway.failNext = errors.New("write rejected")

	status := models.StatusLost
	if _, err := s.Update(context.Background(), target.ID, models.LeadUpdate{Status: &status}); err == nil {
		t.Fatal("expected update error")
	}

	got, ok := s.Get(target.ID)
	if !ok {
		t.Fatal("lead should still exist")
	}
	if got.Status != target.Status {
		t.Fatalf("rejected update must restore the previous state, got status %s", got.Status)
	}
	if !got.UpdatedAt.Equal(target.UpdatedAt) {
		t.Fatal("rejected update must restore the previous timestamps")
	}
}

func TestUpdateUnknownLead(t *testing.T) {
	gateway := &fakeGateway{}
	s := NewLeadStore(gateway, primitive.NewObjectID())

	status := models.StatusWon
	if _, err := s.Update(context.Background(), primitive.NewObjectID(), models.LeadUpdate{Status: &status}); err != ErrLeadNotFound {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
	if gateway.updates != 0 {
		t.Fatal("unknown lead must not reach the gateway")
	}
}

func TestUpdateNotesIsLocalOnly(t *testing.T) {
	gateway := &fakeGateway{leads: seedLeads(1)}
	s := NewLeadStore(gateway, primitive.NewObjectID())
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}

	target := s.Leads()[0]
	notes := []models.LeadNote{{ID: primitive.NewObjectID(), LeadID: target.ID, Content: "called back"}}
	if err := s.UpdateNotes(target.ID, notes); err != nil {
		t.Fatalf("UpdateNotes failed: %v", err)
	}

	got, _ := s.Get(target.ID)
	if len(got.Notes) != 1 || got.Notes[0].Content != "called back" {
		t.Fatal("note list should be replaced in the local view")
	}
	if gateway.updates != 0 {
		t.Fatal("UpdateNotes must not issue gateway calls")
	}
}

func TestDeleteIsGatewayFirst(t *testing.T) {
	gateway := &fakeGateway{leads: seedLeads(2)}
	s := NewLeadStore(gateway, primitive.NewObjectID())
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}

	target := s.Leads()[0]

	gateway.failNext = errors.New("delete rejected")
	if err := s.Delete(context.Background(), target.ID); err == nil {
		t.Fatal("expected delete error")
	}
	if _, ok := s.Get(target.ID); !ok {
		t.Fatal("failed delete must keep the lead visible")
	}

	if err := s.Delete(context.Background(), target.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := s.Get(target.ID); ok {
		t.Fatal("confirmed delete must remove the lead")
	}
	if got := len(s.Leads()); got != 1 {
		t.Fatalf("expected 1 lead left, got %d", got)
	}
}

func TestManagerFetchesOnFirstUse(t *testing.T) {
	gateway := &fakeGateway{leads: seedLeads(2)}
	m := NewManager(gateway)
	tenantID := primitive.NewObjectID()

	s, err := m.ForTenant(context.Background(), tenantID)
	if err != nil {
		t.Fatalf("ForTenant failed: %v", err)
	}
	if got := len(s.Leads()); got != 2 {
		t.Fatalf("expected 2 leads on first use, got %d", got)
	}

	// Second call returns the cached store without refetching
	gateway.leads = seedLeads(5)
	again, err := m.ForTenant(context.Background(), tenantID)
	if err != nil {
		t.Fatalf("ForTenant failed: %v", err)
	}
	if again != s {
		t.Fatal("expected the cached store instance")
	}
	if got := len(again.Leads()); got != 2 {
		t.Fatalf("cached store should not refetch, got %d leads", got)
	}

	// Reload forces the fresh view
	if _, err := m.Reload(context.Background(), tenantID); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if got := len(s.Leads()); got != 5 {
		t.Fatalf("expected 5 leads after reload, got %d", got)
	}
}

func TestManagerRetriesAfterFailedFetch(t *testing.T) {
	gateway := &fakeGateway{leads: seedLeads(3), fetchErr: errors.New("connection reset")}
	m := NewManager(gateway)
	tenantID := primitive.NewObjectID()

	if _, err := m.ForTenant(context.Background(), tenantID); err == nil {
		t.Fatal("expected fetch error on first use")
	}

	// The backend recovers; repeating the request must refetch, not serve
	// the empty collection the failure left behind
	gateway.fetchErr = nil
	s, err := m.ForTenant(context.Background(), tenantID)
	if err != nil {
		t.Fatalf("ForTenant after recovery failed: %v", err)
	}
	if got := len(s.Leads()); got != 3 {
		t.Fatalf("expected 3 leads after recovery, got %d", got)
	}
	if s.LoadErr() != nil {
		t.Fatalf("load error flag should be cleared, got %v", s.LoadErr())
	}

	// A healthy cached store is still served without refetching
	gateway.leads = seedLeads(9)
	again, err := m.ForTenant(context.Background(), tenantID)
	if err != nil {
		t.Fatalf("ForTenant failed: %v", err)
	}
	if got := len(again.Leads()); got != 3 {
		t.Fatalf("healthy store should not refetch, got %d leads", got)
	}
}

// scopedGateway serves each tenant its own lead set.
type scopedGateway struct {
	byTenant map[primitive.ObjectID][]models.Lead
}

func (g *scopedGateway) FetchLeads(ctx context.Context, tenantID primitive.ObjectID) ([]models.Lead, error) {
	out := make([]models.Lead, len(g.byTenant[tenantID]))
	copy(out, g.byTenant[tenantID])
	return out, nil
}

func (g *scopedGateway) InsertLead(ctx context.Context, lead models.Lead) (models.Lead, error) {
	if lead.ID.IsZero() {
		lead.ID = primitive.NewObjectID()
	}
	g.byTenant[lead.TenantID] = append(g.byTenant[lead.TenantID], lead)
	return lead, nil
}

func (g *scopedGateway) UpdateLead(ctx context.Context, leadID primitive.ObjectID, update models.LeadUpdate) error {
	return nil
}

func (g *scopedGateway) DeleteLead(ctx context.Context, leadID primitive.ObjectID) error {
	return nil
}

func TestTenantSwitchReplacesVisibleLeads(t *testing.T) {
	tenantA := primitive.NewObjectID()
	tenantB := primitive.NewObjectID()

	leadsA := []models.Lead{
		{ID: primitive.NewObjectID(), TenantID: tenantA, Name: "Alpha", Status: models.StatusNew},
		{ID: primitive.NewObjectID(), TenantID: tenantA, Name: "Beta", Status: models.StatusWon},
	}
	leadsB := []models.Lead{
		{ID: primitive.NewObjectID(), TenantID: tenantB, Name: "Gamma", Status: models.StatusContacted},
	}

	gateway := &scopedGateway{byTenant: map[primitive.ObjectID][]models.Lead{
		tenantA: leadsA,
		tenantB: leadsB,
	}}
	m := NewManager(gateway)

	storeA, err := m.ForTenant(context.Background(), tenantA)
	if err != nil {
		t.Fatalf("ForTenant(A) failed: %v", err)
	}
	if got := len(storeA.Leads()); got != 2 {
		t.Fatalf("tenant A: expected 2 leads, got %d", got)
	}

	// Switching tenants goes through Reload; the visible set is fully
	// replaced by the new scope
	storeB, err := m.Reload(context.Background(), tenantB)
	if err != nil {
		t.Fatalf("Reload(B) failed: %v", err)
	}
	visible := storeB.Leads()
	if len(visible) != 1 || visible[0].Name != "Gamma" {
		t.Fatalf("tenant B: expected only Gamma, got %+v", visible)
	}
	for _, lead := range visible {
		if lead.TenantID != tenantB {
			t.Fatalf("lead %s from another tenant leaked into tenant B's view", lead.Name)
		}
	}

	// Tenant A's scope is untouched by the switch
	if got := len(storeA.Leads()); got != 2 {
		t.Fatalf("tenant A's store changed across the switch, got %d leads", got)
	}
	for _, lead := range storeA.Leads() {
		if lead.TenantID != tenantA {
			t.Fatalf("lead %s from another tenant leaked into tenant A's view", lead.Name)
		}
	}
}
