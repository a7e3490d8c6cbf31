package pipeline

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/leadflow/leadflow_backend/models"
	"github.com/leadflow/leadflow_backend/store"
)

type stubGateway struct {
	leads    []models.Lead
	failNext error
}

func (g *stubGateway) FetchLeads(ctx context.Context, tenantID primitive.ObjectID) ([]models.Lead, error) {
	out := make([]models.Lead, len(g.leads))
	copy(out, g.leads)
	return out, nil
}

func (g *stubGateway) InsertLead(ctx context.Context, lead models.Lead) (models.Lead, error) {
	if lead.ID.IsZero() {
		lead.ID = primitive.NewObjectID()
	}
	return lead, nil
}

func (g *stubGateway) UpdateLead(ctx context.Context, leadID primitive.ObjectID, update models.LeadUpdate) error {
	if g.failNext != nil {
		err := g.failNext
		g.failNext = nil
		return err
	}
	return nil
}

func (g *stubGateway) DeleteLead(ctx context.Context, leadID primitive.ObjectID) error {
	return nil
}

func lead(status string, value float64) models.Lead {
	return models.Lead{
		ID:     primitive.NewObjectID(),
		Name:   "Lead",
		Status: status,
		Value:  value,
	}
}

func loadedStore(t *testing.T, gateway *stubGateway) *store.LeadStore {
	t.Helper()
	s := store.NewLeadStore(gateway, primitive.NewObjectID())
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	return s
}

func TestPartitionGroupsByStatusInBoardOrder(t *testing.T) {
	leads := []models.Lead{
		lead(models.StatusWon, 500),
		lead(models.StatusNew, 100),
		lead(models.StatusNew, 200),
		lead(models.StatusLost, 50),
	}

	columns := Partition(leads)

	if len(columns) != len(models.LeadStatuses) {
		t.Fatalf("expected %d columns, got %d", len(models.LeadStatuses), len(columns))
	}
	for i, status := range models.LeadStatuses {
		if columns[i].Status != status {
			t.Fatalf("column %d: expected status %s, got %s", i, status, columns[i].Status)
		}
	}

	newCol := columns[0]
	if len(newCol.Leads) != 2 || newCol.Total != 300 {
		t.Fatalf("new column: expected 2 leads totalling 300, got %d leads totalling %v", len(newCol.Leads), newCol.Total)
	}
	// Relative order within a column follows the input order
	if newCol.Leads[0].ID != leads[1].ID || newCol.Leads[1].ID != leads[2].ID {
		t.Fatal("leads within a column must keep their relative order")
	}
}

func TestPartitionIsPure(t *testing.T) {
	leads := []models.Lead{
		lead(models.StatusContacted, 10),
		lead(models.StatusInterested, 20),
	}

	first := Partition(leads)
	second := Partition(leads)

	for i := range first {
		if first[i].Status != second[i].Status || first[i].Total != second[i].Total ||
			len(first[i].Leads) != len(second[i].Leads) {
			t.Fatalf("column %d differs between identical calls", i)
		}
	}
}

func TestPartitionSkipsUnknownStatuses(t *testing.T) {
	leads := []models.Lead{
		lead("archived", 999),
		lead(models.StatusNew, 100),
	}

	columns := Partition(leads)
	total := 0
	for _, col := range columns {
		total += len(col.Leads)
	}
	if total != 1 {
		t.Fatalf("unknown statuses must not render, got %d leads across columns", total)
	}
}

func TestPartitionEmptyInput(t *testing.T) {
	columns := Partition(nil)
	if len(columns) != len(models.LeadStatuses) {
		t.Fatalf("expected all columns even when empty, got %d", len(columns))
	}
	for _, col := range columns {
		if col.Leads == nil {
			t.Fatalf("column %s should carry an empty slice, not nil", col.Status)
		}
		if col.Total != 0 {
			t.Fatalf("column %s should total zero", col.Status)
		}
	}
}

func TestMoveAppliedChangesColumn(t *testing.T) {
	gateway := &stubGateway{leads: []models.Lead{lead(models.StatusNew, 100)}}
	s := loadedStore(t, gateway)
	board := NewBoard(s)

	target := s.Leads()[0]
	outcome, moved, err := board.Move(context.Background(), Gesture{
		LeadID: target.ID.Hex(),
		From:   models.StatusNew,
		To:     models.StatusWon,
	})
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if outcome != MoveApplied {
		t.Fatalf("expected MoveApplied, got %s", outcome)
	}
	if moved.Status != models.StatusWon {
		t.Fatalf("expected status won, got %s", moved.Status)
	}

	columns := board.Columns()
	for _, col := range columns {
		switch col.Status {
		case models.StatusNew:
			if len(col.Leads) != 0 {
				t.Fatal("lead should have left the new column")
			}
		case models.StatusWon:
			if len(col.Leads) != 1 || col.Total != 100 {
				t.Fatal("lead should appear in the won column with its value")
			}
		}
	}
}

func TestMoveCancelledOutsideColumn(t *testing.T) {
	gateway := &stubGateway{leads: []models.Lead{lead(models.StatusNew, 100)}}
	s := loadedStore(t, gateway)
	board := NewBoard(s)
	target := s.Leads()[0]

	outcome, _, err := board.Move(context.Background(), Gesture{
		LeadID: target.ID.Hex(),
		From:   models.StatusNew,
		To:     "",
	})
	if err != nil || outcome != MoveCancelled {
		t.Fatalf("drop outside a column must cancel, got %s err=%v", outcome, err)
	}

	got, _ := s.Get(target.ID)
	if got.Status != models.StatusNew {
		t.Fatal("cancelled move must not change the lead")
	}
}

func TestMoveCancelledOnSameColumn(t *testing.T) {
	gateway := &stubGateway{leads: []models.Lead{lead(models.StatusContacted, 100)}}
	s := loadedStore(t, gateway)
	board := NewBoard(s)
	target := s.Leads()[0]

	outcome, _, err := board.Move(context.Background(), Gesture{
		LeadID: target.ID.Hex(),
		From:   models.StatusContacted,
		To:     models.StatusContacted,
	})
	if err != nil || outcome != MoveCancelled {
		t.Fatalf("same-column drop must cancel, got %s err=%v", outcome, err)
	}
}

func TestMoveRejectedRollsBack(t *testing.T) {
	gateway := &stubGateway{leads: []models.Lead{lead(models.StatusNew, 100)}}
	s := loadedStore(t, gateway)
	board := NewBoard(s)
	target := s.Leads()[0]

	gateway.failNext = errors.New("write rejected")
	outcome, _, err := board.Move(context.Background(), Gesture{
		LeadID: target.ID.Hex(),
		From:   models.StatusNew,
		To:     models.StatusWon,
	})
	if outcome != MoveRejected {
		t.Fatalf("expected MoveRejected, got %s", outcome)
	}
	if err == nil {
		t.Fatal("rejection must surface the gateway error")
	}

	got, _ := s.Get(target.ID)
	if got.Status != models.StatusNew {
		t.Fatal("rejected move must leave the board rolled back")
	}
}

func TestMoveUnknownStage(t *testing.T) {
	gateway := &stubGateway{leads: []models.Lead{lead(models.StatusNew, 100)}}
	s := loadedStore(t, gateway)
	board := NewBoard(s)
	target := s.Leads()[0]

	outcome, _, err := board.Move(context.Background(), Gesture{
		LeadID: target.ID.Hex(),
		From:   models.StatusNew,
		To:     "archived",
	})
	if outcome != MoveCancelled || err == nil {
		t.Fatalf("unknown stage must cancel with an error, got %s err=%v", outcome, err)
	}
}

func TestMoveUnknownLead(t *testing.T) {
	gateway := &stubGateway{}
	s := loadedStore(t, gateway)
	board := NewBoard(s)

	outcome, _, err := board.Move(context.Background(), Gesture{
		LeadID: primitive.NewObjectID().Hex(),
		To:     models.StatusWon,
	})
	if outcome != MoveCancelled || err != store.ErrLeadNotFound {
		t.Fatalf("expected cancelled with ErrLeadNotFound, got %s err=%v", outcome, err)
	}
}

func TestMoveStaleSourceColumn(t *testing.T) {
	// The card was dragged from a render predating a concurrent move; the
	// lead already sits in the target column
	gateway := &stubGateway{leads: []models.Lead{lead(models.StatusWon, 100)}}
	s := loadedStore(t, gateway)
	board := NewBoard(s)
	target := s.Leads()[0]

	outcome, _, err := board.Move(context.Background(), Gesture{
		LeadID: target.ID.Hex(),
		From:   models.StatusNew,
		To:     models.StatusWon,
	})
	if err != nil || outcome != MoveCancelled {
		t.Fatalf("move onto the lead's actual column must cancel, got %s err=%v", outcome, err)
	}
}
