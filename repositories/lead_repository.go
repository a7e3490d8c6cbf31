// repositories/lead_repository.go
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadflow/leadflow_backend/config"
	"github.com/leadflow/leadflow_backend/models"
)

// LeadRepository issues lead and lead-note queries against MongoDB. It is the
// remote gateway the lead store sits in front of.
type LeadRepository struct {
	leads *mongo.Collection
	notes *mongo.Collection
	users *mongo.Collection
}

func NewLeadRepository(db *mongo.Client) *LeadRepository {
	return &LeadRepository{
		leads: config.GetCollection(db, "leads"),
		notes: config.GetCollection(db, "lead_notes"),
		users: config.GetCollection(db, "users"),
	}
}

// FetchLeads loads the tenant's leads newest-first, joined with their notes
// and the display names of assignees.
func (r *LeadRepository) FetchLeads(ctx context.Context, tenantID primitive.ObjectID) ([]models.Lead, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.leads.Find(ctx, bson.M{"tenantId": tenantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var leads []models.Lead
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return []models.Lead{}, nil
	}

	leadIDs := make([]primitive.ObjectID, 0, len(leads))
	assigneeIDs := make([]primitive.ObjectID, 0)
	seenAssignees := make(map[primitive.ObjectID]bool)
	for _, lead := range leads {
		leadIDs = append(leadIDs, lead.ID)
		if lead.AssignedTo != nil && !seenAssignees[*lead.AssignedTo] {
			seenAssignees[*lead.AssignedTo] = true
			assigneeIDs = append(assigneeIDs, *lead.AssignedTo)
		}
	}

	notesByLead, err := r.fetchNotes(ctx, leadIDs)
	if err != nil {
		return nil, err
	}

	names, err := r.fetchAssigneeNames(ctx, assigneeIDs)
	if err != nil {
		return nil, err
	}

	for i := range leads {
		if notes, ok := notesByLead[leads[i].ID]; ok {
			leads[i].Notes = notes
		} else {
			leads[i].Notes = []models.LeadNote{}
		}
		if leads[i].AssignedTo != nil {
			leads[i].AssignedName = names[*leads[i].AssignedTo]
		}
	}

	return leads, nil
}

func (r *LeadRepository) fetchNotes(ctx context.Context, leadIDs []primitive.ObjectID) (map[primitive.ObjectID][]models.LeadNote, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.notes.Find(ctx, bson.M{"leadId": bson.M{"$in": leadIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notes []models.LeadNote
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, err
	}

	grouped := make(map[primitive.ObjectID][]models.LeadNote)
	for _, note := range notes {
		grouped[note.LeadID] = append(grouped[note.LeadID], note)
	}
	return grouped, nil
}

func (r *LeadRepository) fetchAssigneeNames(ctx context.Context, userIDs []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	names := make(map[primitive.ObjectID]string)
	if len(userIDs) == 0 {
		return names, nil
	}

	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		names[u.ID] = u.FullName
	}
	return names, nil
}

// InsertLead persists a new lead and returns it with its assigned id.
func (r *LeadRepository) InsertLead(ctx context.Context, lead models.Lead) (models.Lead, error) {
	if lead.ID.IsZero() {
		lead.ID = primitive.NewObjectID()
	}
	now := time.Now()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	_, err := r.leads.InsertOne(ctx, lead)
	if err != nil {
		return models.Lead{}, err
	}
	lead.Notes = []models.LeadNote{}
	return lead, nil
}

// UpdateLead applies a partial update to the lead. Only the fields present in
// the update are sent; updatedAt is always refreshed.
func (r *LeadRepository) UpdateLead(ctx context.Context, leadID primitive.ObjectID, update models.LeadUpdate) error {
	set := update.SetFields()
	set["updatedAt"] = time.Now()

	result, err := r.leads.UpdateOne(ctx, bson.M{"_id": leadID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteLead removes the lead and cascades to its notes.
func (r *LeadRepository) DeleteLead(ctx context.Context, leadID primitive.ObjectID) error {
	result, err := r.leads.DeleteOne(ctx, bson.M{"_id": leadID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	_, err = r.notes.DeleteMany(ctx, bson.M{"leadId": leadID})
	return err
}

// InsertNote appends a note to a lead.
func (r *LeadRepository) InsertNote(ctx context.Context, note models.LeadNote) (models.LeadNote, error) {
	if note.ID.IsZero() {
		note.ID = primitive.NewObjectID()
	}
	note.CreatedAt = time.Now()

	_, err := r.notes.InsertOne(ctx, note)
	if err != nil {
		return models.LeadNote{}, err
	}
	return note, nil
}

// ReplaceNotes swaps a lead's note list wholesale. Used by the notes dialog,
// which persists before the store's view is refreshed.
func (r *LeadRepository) ReplaceNotes(ctx context.Context, leadID primitive.ObjectID, notes []models.LeadNote) ([]models.LeadNote, error) {
	if _, err := r.notes.DeleteMany(ctx, bson.M{"leadId": leadID}); err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return []models.LeadNote{}, nil
	}

	docs := make([]interface{}, 0, len(notes))
	now := time.Now()
	for i := range notes {
		if notes[i].ID.IsZero() {
			notes[i].ID = primitive.NewObjectID()
		}
		notes[i].LeadID = leadID
		if notes[i].CreatedAt.IsZero() {
			notes[i].CreatedAt = now
		}
		docs = append(docs, notes[i])
	}
	if _, err := r.notes.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return notes, nil
}
