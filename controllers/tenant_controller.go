// controllers/tenant_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadflow/leadflow_backend/config"
	"github.com/leadflow/leadflow_backend/middleware"
	"github.com/leadflow/leadflow_backend/models"
	"github.com/leadflow/leadflow_backend/repositories"
	"github.com/leadflow/leadflow_backend/store"
	"github.com/leadflow/leadflow_backend/utils"
)

// TenantController resolves which tenant's data is visible for a session.
type TenantController struct {
	DB         *mongo.Client
	tenantRepo *repositories.TenantRepository
	stores     *store.Manager
}

func NewTenantController(db *mongo.Client, stores *store.Manager) *TenantController {
	return &TenantController{
		DB:         db,
		tenantRepo: repositories.NewTenantRepository(db),
		stores:     stores,
	}
}

// GetTenants lists the caller's memberships with their roles.
func (tc *TenantController) GetTenants(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userIDHex, err := middleware.ExtractUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Invalid authentication token")
	}
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid user ID")
	}

	memberships, err := tc.tenantRepo.MembershipsForUser(ctx, userID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to fetch tenants")
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Tenants retrieved successfully",
		Data:    memberships,
	})
}

// GetActiveTenant returns the resolved active tenant and the caller's role
// in it, restoring the persisted selection or falling back to the first
// membership.
func (tc *TenantController) GetActiveTenant(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, tc.tenantRepo)
	if err != nil {
		return err
	}

	memberships, err := tc.tenantRepo.MembershipsForUser(ctx, s.UserID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to fetch tenants")
	}

	for _, view := range memberships {
		if view.ID == s.TenantID {
			return c.JSON(http.StatusOK, models.Response{
				Status:  http.StatusOK,
				Message: "Active tenant retrieved successfully",
				Data: map[string]interface{}{
					"tenant":  view,
					"isAdmin": s.IsAdmin(),
				},
			})
		}
	}

	return fail(c, http.StatusNotFound, "Active tenant not found")
}

// SwitchTenant changes the active tenant. The selection is persisted and the
// lead store for the new scope is reloaded in full; nothing from the old
// tenant carries over.
func (tc *TenantController) SwitchTenant(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userIDHex, err := middleware.ExtractUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Invalid authentication token")
	}
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid user ID")
	}

	var req models.SwitchTenantRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Tenant ID is required")
	}

	tenantID, err := primitive.ObjectIDFromHex(req.TenantID)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid tenant ID")
	}

	membership, err := tc.tenantRepo.Membership(ctx, userID, tenantID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return fail(c, http.StatusForbidden, "Not a member of this tenant")
		}
		return fail(c, http.StatusInternalServerError, "Failed to verify membership")
	}

	if err := utils.SaveActiveTenant(config.GetRedisClient(), userIDHex, tenantID.Hex()); err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to persist tenant selection")
	}

	// Full reload for the new scope
	if _, err := tc.stores.Reload(ctx, tenantID); err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to load leads for tenant")
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Active tenant switched successfully",
		Data: map[string]interface{}{
			"tenantId": tenantID.Hex(),
			"role":     membership.Role,
		},
	})
}

// CreateTenant creates a tenant with the caller as its admin.
func (tc *TenantController) CreateTenant(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userIDHex, err := middleware.ExtractUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Invalid authentication token")
	}
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid user ID")
	}

	var req models.CreateTenantRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Validation failed: "+err.Error())
	}

	tenant, err := tc.tenantRepo.CreateTenant(ctx, models.Tenant{
		Name:     req.Name,
		Industry: req.Industry,
		Email:    req.Email,
		Phone:    req.Phone,
	}, userID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to create tenant")
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Tenant created successfully",
		Data:    tenant,
	})
}
