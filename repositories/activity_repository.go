package repositories

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadflow/leadflow_backend/config"
	"github.com/leadflow/leadflow_backend/models"
)

type ActivityRepository struct {
	collection *mongo.Collection
}

func NewActivityRepository(db *mongo.Client) *ActivityRepository {
	return &ActivityRepository{
		collection: config.GetCollection(db, "activities"),
	}
}

// Append records an audit trail entry. Failures are logged and swallowed so
// a broken log never fails the user action it describes.
func (r *ActivityRepository) Append(tenantID primitive.ObjectID, leadID, userID *primitive.ObjectID, activityType, description string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	activity := models.Activity{
		ID:          primitive.NewObjectID(),
		TenantID:    tenantID,
		LeadID:      leadID,
		Type:        activityType,
		Description: description,
		UserID:      userID,
		Timestamp:   time.Now(),
	}

	if _, err := r.collection.InsertOne(ctx, activity); err != nil {
		log.Printf("Failed to record activity: %v", err)
	}
}

func (r *ActivityRepository) ListByLead(ctx context.Context, tenantID, leadID primitive.ObjectID) ([]models.Activity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"tenantId": tenantID, "leadId": leadID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	return activities, nil
}

func (r *ActivityRepository) ListByTenant(ctx context.Context, tenantID primitive.ObjectID, limit int64) ([]models.Activity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, bson.M{"tenantId": tenantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	return activities, nil
}
