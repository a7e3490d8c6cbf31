// pipeline/board.go
package pipeline

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/leadflow/leadflow_backend/models"
	"github.com/leadflow/leadflow_backend/store"
)

// Column is one pipeline stage with its leads and their summed deal value.
type Column struct {
	Status string        `json:"status"`
	Leads  []models.Lead `json:"leads"`
	Total  float64       `json:"total"`
}

// Partition groups leads by status into columns ordered by pipeline stage,
// preserving the relative order of leads within each column. It is a pure
// function: calling it twice on the same collection yields identical
// groupings.
func Partition(leads []models.Lead) []Column {
	columns := make([]Column, len(models.LeadStatuses))
	index := make(map[string]int, len(models.LeadStatuses))
	for i, status := range models.LeadStatuses {
		columns[i] = Column{Status: status, Leads: []models.Lead{}}
		index[status] = i
	}

	for _, lead := range leads {
		i, ok := index[lead.Status]
		if !ok {
			// Out-of-enumeration statuses never render; the invariant is
			// enforced at every write site
			continue
		}
		columns[i].Leads = append(columns[i].Leads, lead)
		columns[i].Total += lead.Value
	}

	return columns
}

// Gesture is the abstract outcome of a drag: which lead, from which column,
// released over which column. An empty To means the pointer was released
// outside any column.
type Gesture struct {
	LeadID string `json:"leadId" validate:"required"`
	From   string `json:"fromStatus"`
	To     string `json:"toStatus"`
}

// Outcome of a move request.
type Outcome int

const (
	// MoveApplied: the lead changed column and the change was committed.
	MoveApplied Outcome = iota
	// MoveCancelled: released outside a column or over the source column.
	MoveCancelled
	// MoveRejected: the gateway refused the commit; the local change was
	// rolled back and boards should re-render the reverted partition.
	MoveRejected
)

func (o Outcome) String() string {
	switch o {
	case MoveApplied:
		return "applied"
	case MoveCancelled:
		return "cancelled"
	case MoveRejected:
		return "rejected"
	}
	return "unknown"
}

// Board translates drag gestures into status mutations against a tenant's
// lead store.
type Board struct {
	store *store.LeadStore
}

func NewBoard(s *store.LeadStore) *Board {
	return &Board{store: s}
}

// Columns recomputes the partition from the store's current snapshot.
func (b *Board) Columns() []Column {
	return Partition(b.store.Leads())
}

// Move resolves a gesture. Same-column and no-column drops are cancelled
// without touching state. A cross-column drop updates the lead's status
// through the store; a gateway rejection surfaces as MoveRejected with the
// store already rolled back.
func (b *Board) Move(ctx context.Context, g Gesture) (Outcome, models.Lead, error) {
	if g.To == "" || g.To == g.From {
		return MoveCancelled, models.Lead{}, nil
	}
	if !models.ValidStatus(g.To) {
		return MoveCancelled, models.Lead{}, fmt.Errorf("unknown pipeline stage %q", g.To)
	}

	leadID, err := primitive.ObjectIDFromHex(g.LeadID)
	if err != nil {
		return MoveCancelled, models.Lead{}, fmt.Errorf("invalid lead id %q", g.LeadID)
	}

	lead, ok := b.store.Get(leadID)
	if !ok {
		return MoveCancelled, models.Lead{}, store.ErrLeadNotFound
	}
	if g.From != "" && lead.Status != g.From {
		// The card was dragged from a stale render; treat the lead's actual
		// column as the source
		if lead.Status == g.To {
			return MoveCancelled, models.Lead{}, nil
		}
	}

	status := g.To
	updated, err := b.store.Update(ctx, leadID, models.LeadUpdate{Status: &status})
	if err != nil {
		return MoveRejected, models.Lead{}, err
	}
	return MoveApplied, updated, nil
}
