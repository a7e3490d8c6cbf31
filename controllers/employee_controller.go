// controllers/employee_controller.go
package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadflow/leadflow_backend/models"
	"github.com/leadflow/leadflow_backend/repositories"
)

// EmployeeController lists a tenant's members and manages their roles.
type EmployeeController struct {
	DB           *mongo.Client
	tenantRepo   *repositories.TenantRepository
	activityRepo *repositories.ActivityRepository
}

func NewEmployeeController(db *mongo.Client) *EmployeeController {
	return &EmployeeController{
		DB:           db,
		tenantRepo:   repositories.NewTenantRepository(db),
		activityRepo: repositories.NewActivityRepository(db),
	}
}

// GetEmployees lists the active tenant's members with their roles.
func (ec *EmployeeController) GetEmployees(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, ec.tenantRepo)
	if err != nil {
		return err
	}
	if !s.IsAdmin() {
		return fail(c, http.StatusForbidden, "Admin rights required")
	}

	employees, err := ec.tenantRepo.Employees(ctx, s.TenantID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to fetch employees")
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Employees retrieved successfully",
		Data:    employees,
	})
}

// UpdateRole changes a member's role within the active tenant. Only admins
// may change roles, and granting super_admin takes a super admin caller.
func (ec *EmployeeController) UpdateRole(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, ec.tenantRepo)
	if err != nil {
		return err
	}
	if !s.IsAdmin() {
		return fail(c, http.StatusForbidden, "Admin rights required")
	}

	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid user ID")
	}

	var req models.UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Unknown role value")
	}
	if req.Role == models.RoleSuperAdmin && !s.SuperAdmin {
		return fail(c, http.StatusForbidden, "Only a super admin can grant super_admin")
	}

	if err := ec.tenantRepo.UpdateRole(ctx, s.TenantID, userID, req.Role); err != nil {
		if err == mongo.ErrNoDocuments {
			return fail(c, http.StatusNotFound, "Employee not found in this tenant")
		}
		return fail(c, http.StatusInternalServerError, "Failed to update role")
	}

	ec.activityRepo.Append(s.TenantID, nil, &s.UserID, models.ActivityRoleChange,
		fmt.Sprintf("Role of user %s changed to %s", userID.Hex(), req.Role))

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Role updated successfully",
		Data: map[string]string{
			"userId": userID.Hex(),
			"role":   req.Role,
		},
	})
}
