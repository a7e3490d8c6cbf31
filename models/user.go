// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User model
type User struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email          string             `json:"email" bson:"email"`
	Password       string             `json:"password,omitempty" bson:"password"`
	FullName       string             `json:"fullName" bson:"fullName"`
	Phone          string             `json:"phone,omitempty" bson:"phone,omitempty"`
	IsSuperAdmin   bool               `json:"isSuperAdmin" bson:"isSuperAdmin"`
	IsActive       bool               `json:"isActive" bson:"isActive"`
	LastActivityAt time.Time          `json:"lastActivityAt" bson:"lastActivityAt"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Employee is a user's profile as seen inside a tenant, with the role the
// membership carries there.
type Employee struct {
	UserID     primitive.ObjectID `json:"userId"`
	FullName   string             `json:"fullName"`
	Email      string             `json:"email"`
	Phone      string             `json:"phone,omitempty"`
	Role       string             `json:"role"`
	IsActive   bool               `json:"isActive"`
	JoinedAt   time.Time          `json:"joinedAt"`
	TenantID   primitive.ObjectID `json:"tenantId"`
	TenantName string             `json:"tenantName,omitempty"`
}

// SignupRequest registers a user, optionally creating their first tenant.
type SignupRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	FullName   string `json:"fullName" validate:"required"`
	Phone      string `json:"phone,omitempty"`
	TenantName string `json:"tenantName,omitempty"`
	Industry   string `json:"industry,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued tokens together with the profile.
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

// UpdateRoleRequest changes an employee's role within the active tenant.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=super_admin admin sales_executive"`
}
