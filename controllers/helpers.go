// controllers/helpers.go
package controllers

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/leadflow/leadflow_backend/config"
	"github.com/leadflow/leadflow_backend/middleware"
	"github.com/leadflow/leadflow_backend/models"
	"github.com/leadflow/leadflow_backend/repositories"
	"github.com/leadflow/leadflow_backend/utils"
)

// session describes the resolved caller: who they are, which tenant scope
// they operate in, and their role there.
type session struct {
	UserID     primitive.ObjectID
	TenantID   primitive.ObjectID
	Role       string
	SuperAdmin bool
}

// IsAdmin reports whether the session grants admin rights in its tenant.
func (s session) IsAdmin() bool {
	return models.IsAdminRole(s.Role, s.SuperAdmin)
}

// resolveSession extracts the caller from the token and resolves their
// active tenant: the persisted selection if the membership still holds,
// otherwise the first membership in backend order (which is then persisted).
func resolveSession(ctx context.Context, c echo.Context, tenantRepo *repositories.TenantRepository) (session, error) {
	var s session

	userIDHex, err := middleware.ExtractUserID(c)
	if err != nil {
		return s, echo.NewHTTPError(http.StatusUnauthorized, "Invalid authentication token")
	}
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return s, echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	s.UserID = userID
	s.SuperAdmin = middleware.IsSuperAdmin(c)

	redisClient := config.GetRedisClient()
	if savedID := utils.LoadActiveTenant(redisClient, userIDHex); savedID != "" {
		if tenantID, err := primitive.ObjectIDFromHex(savedID); err == nil {
			if membership, err := tenantRepo.Membership(ctx, userID, tenantID); err == nil {
				s.TenantID = tenantID
				s.Role = membership.Role
				return s, nil
			}
			// Saved tenant no longer among the memberships
			utils.ClearActiveTenant(redisClient, userIDHex)
		}
	}

	memberships, err := tenantRepo.MembershipsForUser(ctx, userID)
	if err != nil {
		return s, echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve tenant memberships")
	}
	if len(memberships) == 0 {
		return s, echo.NewHTTPError(http.StatusForbidden, "No tenant membership found")
	}

	first := memberships[0]
	s.TenantID = first.ID
	s.Role = first.Role
	// Persist the fallback so subsequent requests resolve the same tenant
	if err := utils.SaveActiveTenant(redisClient, userIDHex, first.ID.Hex()); err != nil {
		log.Printf("Failed to persist active tenant for %s: %v", userIDHex, err)
	}
	return s, nil
}

// fail wraps a handler error into the standard response envelope unless it
// already is an echo HTTPError.
func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
	})
}
