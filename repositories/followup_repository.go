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

type FollowUpRepository struct {
	collection *mongo.Collection
}

func NewFollowUpRepository(db *mongo.Client) *FollowUpRepository {
	return &FollowUpRepository{
		collection: config.GetCollection(db, "followups"),
	}
}

func (r *FollowUpRepository) ListByTenant(ctx context.Context, tenantID primitive.ObjectID, pendingOnly bool) ([]models.FollowUp, error) {
	filter := bson.M{"tenantId": tenantID}
	if pendingOnly {
		filter["completed"] = false
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var followUps []models.FollowUp
	if err := cursor.All(ctx, &followUps); err != nil {
		return nil, err
	}
	if followUps == nil {
		followUps = []models.FollowUp{}
	}
	return followUps, nil
}

func (r *FollowUpRepository) FindByID(ctx context.Context, followUpID primitive.ObjectID) (*models.FollowUp, error) {
	var followUp models.FollowUp
	err := r.collection.FindOne(ctx, bson.M{"_id": followUpID}).Decode(&followUp)
	if err != nil {
		return nil, err
	}
	return &followUp, nil
}

func (r *FollowUpRepository) Create(ctx context.Context, followUp models.FollowUp) (models.FollowUp, error) {
	now := time.Now()
	followUp.ID = primitive.NewObjectID()
	followUp.CreatedAt = now
	followUp.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, followUp)
	if err != nil {
		return models.FollowUp{}, err
	}
	return followUp, nil
}

// Update applies a partial update to the follow-up. Only the fields present
// in the update are sent; updatedAt is always refreshed.
func (r *FollowUpRepository) Update(ctx context.Context, followUpID primitive.ObjectID, update models.FollowUpUpdate) error {
	set := update.SetFields()
	set["updatedAt"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": followUpID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *FollowUpRepository) MarkCompleted(ctx context.Context, followUpID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": followUpID},
		bson.M{"$set": bson.M{"completed": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
