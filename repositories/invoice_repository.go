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

type InvoiceRepository struct {
	collection *mongo.Collection
}

func NewInvoiceRepository(db *mongo.Client) *InvoiceRepository {
	return &InvoiceRepository{
		collection: config.GetCollection(db, "invoices"),
	}
}

func (r *InvoiceRepository) ListByTenant(ctx context.Context, tenantID primitive.ObjectID) ([]models.Invoice, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"tenantId": tenantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var invoices []models.Invoice
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, err
	}
	if invoices == nil {
		invoices = []models.Invoice{}
	}
	return invoices, nil
}

func (r *InvoiceRepository) FindByID(ctx context.Context, invoiceID primitive.ObjectID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.collection.FindOne(ctx, bson.M{"_id": invoiceID}).Decode(&invoice)
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice models.Invoice) (models.Invoice, error) {
	now := time.Now()
	invoice.ID = primitive.NewObjectID()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now
	if invoice.Status == "" {
		invoice.Status = models.InvoicePending
	}

	_, err := r.collection.InsertOne(ctx, invoice)
	if err != nil {
		return models.Invoice{}, err
	}
	return invoice, nil
}

// MarkOverdue flips pending invoices whose due date has passed.
func (r *InvoiceRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"status": models.InvoicePending, "dueDate": bson.M{"$lt": now}},
		bson.M{"$set": bson.M{"status": models.InvoiceOverdue, "updatedAt": now}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}
