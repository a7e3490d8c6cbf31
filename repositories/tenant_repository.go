// repositories/tenant_repository.go
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

type TenantRepository struct {
	tenants     *mongo.Collection
	memberships *mongo.Collection
	users       *mongo.Collection
}

func NewTenantRepository(db *mongo.Client) *TenantRepository {
	return &TenantRepository{
		tenants:     config.GetCollection(db, "tenants"),
		memberships: config.GetCollection(db, "tenant_memberships"),
		users:       config.GetCollection(db, "users"),
	}
}

// MembershipsForUser returns the user's active memberships joined with their
// tenants, in membership creation order. The first entry is the deterministic
// fallback when no persisted active tenant exists.
func (r *TenantRepository) MembershipsForUser(ctx context.Context, userID primitive.ObjectID) ([]models.TenantView, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.memberships.Find(ctx, bson.M{"userId": userID, "isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var memberships []models.TenantMembership
	if err := cursor.All(ctx, &memberships); err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return []models.TenantView{}, nil
	}

	tenantIDs := make([]primitive.ObjectID, 0, len(memberships))
	roleByTenant := make(map[primitive.ObjectID]string, len(memberships))
	for _, m := range memberships {
		tenantIDs = append(tenantIDs, m.TenantID)
		roleByTenant[m.TenantID] = m.Role
	}

	tenantCursor, err := r.tenants.Find(ctx, bson.M{"_id": bson.M{"$in": tenantIDs}})
	if err != nil {
		return nil, err
	}
	defer tenantCursor.Close(ctx)

	var tenants []models.Tenant
	if err := tenantCursor.All(ctx, &tenants); err != nil {
		return nil, err
	}
	tenantByID := make(map[primitive.ObjectID]models.Tenant, len(tenants))
	for _, t := range tenants {
		tenantByID[t.ID] = t
	}

	// Preserve membership order, skip dangling references
	views := make([]models.TenantView, 0, len(memberships))
	for _, m := range memberships {
		t, ok := tenantByID[m.TenantID]
		if !ok {
			continue
		}
		views = append(views, models.TenantView{
			ID:       t.ID,
			Name:     t.Name,
			Industry: t.Industry,
			Email:    t.Email,
			Phone:    t.Phone,
			Role:     roleByTenant[t.ID],
		})
	}
	return views, nil
}

// Membership returns the user's active membership in a tenant, if any.
func (r *TenantRepository) Membership(ctx context.Context, userID, tenantID primitive.ObjectID) (*models.TenantMembership, error) {
	var membership models.TenantMembership
	err := r.memberships.FindOne(ctx, bson.M{
		"userId":   userID,
		"tenantId": tenantID,
		"isActive": true,
	}).Decode(&membership)
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// CreateTenant creates a tenant and an admin membership for the creator.
func (r *TenantRepository) CreateTenant(ctx context.Context, tenant models.Tenant, creatorID primitive.ObjectID) (models.Tenant, error) {
	now := time.Now()
	tenant.ID = primitive.NewObjectID()
	tenant.CreatedAt = now
	tenant.UpdatedAt = now

	if _, err := r.tenants.InsertOne(ctx, tenant); err != nil {
		return models.Tenant{}, err
	}

	membership := models.TenantMembership{
		ID:        primitive.NewObjectID(),
		TenantID:  tenant.ID,
		UserID:    creatorID,
		Role:      models.RoleAdmin,
		IsActive:  true,
		CreatedAt: now,
	}
	if _, err := r.memberships.InsertOne(ctx, membership); err != nil {
		return models.Tenant{}, err
	}

	return tenant, nil
}

// Employees lists the tenant's members joined with their user profiles.
func (r *TenantRepository) Employees(ctx context.Context, tenantID primitive.ObjectID) ([]models.Employee, error) {
	cursor, err := r.memberships.Find(ctx, bson.M{"tenantId": tenantID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var memberships []models.TenantMembership
	if err := cursor.All(ctx, &memberships); err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return []models.Employee{}, nil
	}

	userIDs := make([]primitive.ObjectID, 0, len(memberships))
	for _, m := range memberships {
		userIDs = append(userIDs, m.UserID)
	}

	userCursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, err
	}
	defer userCursor.Close(ctx)

	var users []models.User
	if err := userCursor.All(ctx, &users); err != nil {
		return nil, err
	}
	userByID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	employees := make([]models.Employee, 0, len(memberships))
	for _, m := range memberships {
		u, ok := userByID[m.UserID]
		if !ok {
			continue
		}
		role := m.Role
		if u.IsSuperAdmin {
			role = models.RoleSuperAdmin
		}
		employees = append(employees, models.Employee{
			UserID:   u.ID,
			FullName: u.FullName,
			Email:    u.Email,
			Phone:    u.Phone,
			Role:     role,
			IsActive: m.IsActive,
			JoinedAt: m.CreatedAt,
			TenantID: m.TenantID,
		})
	}
	return employees, nil
}

// UpdateRole changes a member's role within the tenant.
func (r *TenantRepository) UpdateRole(ctx context.Context, tenantID, userID primitive.ObjectID, role string) error {
	result, err := r.memberships.UpdateOne(ctx,
		bson.M{"tenantId": tenantID, "userId": userID},
		bson.M{"$set": bson.M{"role": role}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
