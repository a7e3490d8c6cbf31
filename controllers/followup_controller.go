// controllers/followup_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadflow/leadflow_backend/models"
	"github.com/leadflow/leadflow_backend/repositories"
	"github.com/leadflow/leadflow_backend/store"
	"github.com/leadflow/leadflow_backend/utils"
)

// FollowUpController schedules and completes lead touchpoints.
type FollowUpController struct {
	DB           *mongo.Client
	followUpRepo *repositories.FollowUpRepository
	tenantRepo   *repositories.TenantRepository
	userRepo     *repositories.UserRepository
	activityRepo *repositories.ActivityRepository
	stores       *store.Manager
}

func NewFollowUpController(db *mongo.Client, stores *store.Manager) *FollowUpController {
	return &FollowUpController{
		DB:           db,
		followUpRepo: repositories.NewFollowUpRepository(db),
		tenantRepo:   repositories.NewTenantRepository(db),
		userRepo:     repositories.NewUserRepository(db),
		activityRepo: repositories.NewActivityRepository(db),
		stores:       stores,
	}
}

// GetFollowUps lists the active tenant's follow-ups by date. Pass
// ?pending=true to hide completed ones.
func (fc *FollowUpController) GetFollowUps(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, fc.tenantRepo)
	if err != nil {
		return err
	}

	pendingOnly := c.QueryParam("pending") == "true"
	followUps, err := fc.followUpRepo.ListByTenant(ctx, s.TenantID, pendingOnly)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to fetch follow-ups")
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Follow-ups retrieved successfully",
		Data:    followUps,
	})
}

// CreateFollowUp schedules a follow-up for a lead and stamps the lead's
// followUpDate so the card shows it.
func (fc *FollowUpController) CreateFollowUp(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, fc.tenantRepo)
	if err != nil {
		return err
	}

	var req models.CreateFollowUpRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Validation failed: "+err.Error())
	}

	leadID, err := primitive.ObjectIDFromHex(req.LeadID)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid lead ID")
	}

	leadStore, err := fc.stores.ForTenant(ctx, s.TenantID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to load leads")
	}
	lead, ok := leadStore.Get(leadID)
	if !ok {
		return fail(c, http.StatusNotFound, "Lead not found")
	}

	created, err := fc.followUpRepo.Create(ctx, models.FollowUp{
		TenantID:  s.TenantID,
		LeadID:    leadID,
		Date:      req.Date,
		Time:      req.Time,
		Type:      req.Type,
		Notes:     req.Notes,
		CreatedBy: s.UserID,
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to create follow-up")
	}

	date := req.Date
	if _, err := leadStore.Update(ctx, leadID, models.LeadUpdate{FollowUpDate: &date}); err != nil {
		log.Printf("Follow-up saved but lead date update failed for %s: %v", leadID.Hex(), err)
	}

	fc.activityRepo.Append(s.TenantID, &leadID, &s.UserID, models.ActivityTypeForFollowUp(req.Type),
		"Follow-up scheduled for "+req.Date.Format("2006-01-02")+" at "+req.Time)

	if lead.AssignedTo != nil {
		fc.remindAssignee(ctx, *lead.AssignedTo, lead.Name, created)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Follow-up created successfully",
		Data:    created,
	})
}

func (fc *FollowUpController) remindAssignee(ctx context.Context, assigneeID primitive.ObjectID, leadName string, followUp models.FollowUp) {
	assignee, err := fc.userRepo.FindByID(ctx, assigneeID)
	if err != nil {
		log.Printf("Failed to load assignee %s: %v", assigneeID.Hex(), err)
		return
	}

	go func() {
		if err := utils.SendFollowUpReminder(assignee.Email, assignee.FullName, leadName,
			followUp.Type, followUp.Date.Format("2006-01-02"), followUp.Time); err != nil {
			log.Printf("Failed to send follow-up reminder: %v", err)
		}
	}()
}

// UpdateFollowUp reschedules or annotates a follow-up. Only the provided
// fields change; moving the date also restamps the lead's followUpDate.
func (fc *FollowUpController) UpdateFollowUp(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, fc.tenantRepo)
	if err != nil {
		return err
	}

	followUpID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid follow-up ID")
	}

	var update models.FollowUpUpdate
	if err := c.Bind(&update); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if update.IsEmpty() {
		return fail(c, http.StatusBadRequest, "No fields to update")
	}
	if update.Type != nil && !models.ValidFollowUpType(*update.Type) {
		return fail(c, http.StatusBadRequest, "Unknown follow-up type")
	}

	followUp, err := fc.followUpRepo.FindByID(ctx, followUpID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return fail(c, http.StatusNotFound, "Follow-up not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to fetch follow-up")
	}
	if followUp.TenantID != s.TenantID {
		return fail(c, http.StatusNotFound, "Follow-up not found")
	}

	if err := fc.followUpRepo.Update(ctx, followUpID, update); err != nil {
		if err == mongo.ErrNoDocuments {
			return fail(c, http.StatusNotFound, "Follow-up not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to update follow-up")
	}

	if update.Date != nil {
		leadStore, err := fc.stores.ForTenant(ctx, s.TenantID)
		if err == nil {
			if _, err := leadStore.Update(ctx, followUp.LeadID, models.LeadUpdate{FollowUpDate: update.Date}); err != nil {
				log.Printf("Follow-up updated but lead date update failed for %s: %v", followUp.LeadID.Hex(), err)
			}
		}
	}

	updated, err := fc.followUpRepo.FindByID(ctx, followUpID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to fetch follow-up")
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Follow-up updated successfully",
		Data:    updated,
	})
}

// CompleteFollowUp marks a follow-up done.
func (fc *FollowUpController) CompleteFollowUp(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, fc.tenantRepo)
	if err != nil {
		return err
	}

	followUpID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid follow-up ID")
	}

	followUp, err := fc.followUpRepo.FindByID(ctx, followUpID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return fail(c, http.StatusNotFound, "Follow-up not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to fetch follow-up")
	}
	if followUp.TenantID != s.TenantID {
		return fail(c, http.StatusNotFound, "Follow-up not found")
	}

	if err := fc.followUpRepo.MarkCompleted(ctx, followUpID); err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to complete follow-up")
	}

	fc.activityRepo.Append(s.TenantID, &followUp.LeadID, &s.UserID, models.ActivityTypeForFollowUp(followUp.Type),
		"Follow-up completed")

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Follow-up completed successfully",
	})
}
