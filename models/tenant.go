// models/tenant.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership roles within a tenant. SuperAdmin is process-wide.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleSalesExec  = "sales_executive"
)

// Tenant is an organizational scope isolating one company's leads,
// employees and settings from another's.
type Tenant struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Industry  string             `json:"industry,omitempty" bson:"industry,omitempty"`
	Email     string             `json:"email,omitempty" bson:"email,omitempty"`
	Phone     string             `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// TenantMembership links a user to a tenant with a role.
type TenantMembership struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID  primitive.ObjectID `json:"tenantId" bson:"tenantId"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Role      string             `json:"role" bson:"role"`
	IsActive  bool               `json:"isActive" bson:"isActive"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// TenantView is a tenant decorated with the requesting user's role in it.
type TenantView struct {
	ID       primitive.ObjectID `json:"id"`
	Name     string             `json:"name"`
	Industry string             `json:"industry,omitempty"`
	Email    string             `json:"email,omitempty"`
	Phone    string             `json:"phone,omitempty"`
	Role     string             `json:"role"`
}

// IsAdminRole reports whether the given tenant role (or a process-wide
// super admin flag) grants admin rights.
func IsAdminRole(role string, superAdmin bool) bool {
	return superAdmin || role == RoleAdmin
}

// SwitchTenantRequest selects the active tenant for the session.
type SwitchTenantRequest struct {
	TenantID string `json:"tenantId" validate:"required"`
}

// CreateTenantRequest creates a tenant with the caller as admin.
type CreateTenantRequest struct {
	Name     string `json:"name" validate:"required"`
	Industry string `json:"industry,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
}
