// controllers/lead_controller.go
package controllers

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadflow/leadflow_backend/models"
	"github.com/leadflow/leadflow_backend/repositories"
	"github.com/leadflow/leadflow_backend/store"
	"github.com/leadflow/leadflow_backend/utils"
	"github.com/leadflow/leadflow_backend/websocket"
)

// LeadController contains lead management logic
type LeadController struct {
	DB           *mongo.Client
	leadRepo     *repositories.LeadRepository
	tenantRepo   *repositories.TenantRepository
	userRepo     *repositories.UserRepository
	activityRepo *repositories.ActivityRepository
	stores       *store.Manager
	hub          *websocket.Hub
}

// NewLeadController creates a new lead controller
func NewLeadController(db *mongo.Client, stores *store.Manager, hub *websocket.Hub) *LeadController {
	return &LeadController{
		DB:           db,
		leadRepo:     repositories.NewLeadRepository(db),
		tenantRepo:   repositories.NewTenantRepository(db),
		userRepo:     repositories.NewUserRepository(db),
		activityRepo: repositories.NewActivityRepository(db),
		stores:       stores,
		hub:          hub,
	}
}

// GetLeads returns the active tenant's leads, newest first, with notes and
// assignee names joined.
func (lc *LeadController) GetLeads(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, lc.tenantRepo)
	if err != nil {
		return err
	}

	leadStore, err := lc.stores.ForTenant(ctx, s.TenantID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to load leads")
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Leads retrieved successfully",
		Data:    leadStore.Leads(),
	})
}

// CreateLead creates a lead in the active tenant. Status defaults to "new"
// unless the lead is created directly into a pipeline column.
func (lc *LeadController) CreateLead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, lc.tenantRepo)
	if err != nil {
		return err
	}

	var req models.CreateLeadRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Validation failed: "+err.Error())
	}

	lead := models.Lead{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Company:     req.Company,
		Requirement: req.Requirement,
		Source:      models.NormalizeSource(req.Source),
		Value:       req.Value,
		CreatedBy:   s.UserID,
	}
	if req.Status != "" {
		lead.Status = models.NormalizeStatus(req.Status)
	} else {
		lead.Status = models.StatusNew
	}
	if req.FollowUpDate != nil {
		lead.FollowUpDate = req.FollowUpDate
	}
	if req.AssignedTo != "" {
		assigneeID, err := primitive.ObjectIDFromHex(req.AssignedTo)
		if err != nil {
			return fail(c, http.StatusBadRequest, "Invalid assignee ID")
		}
		lead.AssignedTo = &assigneeID
	}

	leadStore, err := lc.stores.ForTenant(ctx, s.TenantID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to load leads")
	}

	created, err := leadStore.Create(ctx, lead)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to create lead")
	}

	lc.activityRepo.Append(s.TenantID, &created.ID, &s.UserID, models.ActivityNote,
		fmt.Sprintf("Lead %q created", created.Name))

	lc.hub.BroadcastToTenant(s.TenantID, websocket.Event{
		Type: websocket.EventLeadCreated,
		Data: created,
	})

	if created.AssignedTo != nil {
		lc.notifyAssignee(ctx, s.UserID, created)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Lead created successfully",
		Data:    created,
	})
}

func (lc *LeadController) notifyAssignee(ctx context.Context, assignerID primitive.ObjectID, lead models.Lead) {
	assignee, err := lc.userRepo.FindByID(ctx, *lead.AssignedTo)
	if err != nil {
		log.Printf("Failed to load assignee %s: %v", lead.AssignedTo.Hex(), err)
		return
	}
	assigner, err := lc.userRepo.FindByID(ctx, assignerID)
	assignerName := "A teammate"
	if err == nil {
		assignerName = assigner.FullName
	}

	go func() {
		if err := utils.SendLeadAssignedEmail(assignee.Email, assignee.FullName, lead.Name, assignerName); err != nil {
			log.Printf("Failed to notify assignee: %v", err)
		}
	}()
}

// UpdateLead applies a partial update to a lead. Only the provided fields
// are sent; the store applies them optimistically and rolls back if the
// database rejects the write.
func (lc *LeadController) UpdateLead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, lc.tenantRepo)
	if err != nil {
		return err
	}

	leadID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid lead ID")
	}

	var update models.LeadUpdate
	if err := c.Bind(&update); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if update.IsEmpty() {
		return fail(c, http.StatusBadRequest, "No fields to update")
	}
	if update.Status != nil && !models.ValidStatus(*update.Status) {
		return fail(c, http.StatusBadRequest, "Unknown status value")
	}
	if update.Source != nil && !models.ValidSource(*update.Source) {
		return fail(c, http.StatusBadRequest, "Unknown source value")
	}
	if update.Value != nil && *update.Value < 0 {
		return fail(c, http.StatusBadRequest, "Value must be non-negative")
	}

	leadStore, err := lc.stores.ForTenant(ctx, s.TenantID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to load leads")
	}

	previous, ok := leadStore.Get(leadID)
	if !ok {
		return fail(c, http.StatusNotFound, "Lead not found")
	}

	updated, err := leadStore.Update(ctx, leadID, update)
	if err != nil {
		if err == store.ErrLeadNotFound || err == mongo.ErrNoDocuments {
			return fail(c, http.StatusNotFound, "Lead not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to update lead")
	}

	if update.Status != nil && previous.Status != updated.Status {
		lc.activityRepo.Append(s.TenantID, &leadID, &s.UserID, models.ActivityStatusChange,
			fmt.Sprintf("Status changed from %s to %s", previous.Status, updated.Status))
	}
	if update.AssignedTo != nil {
		lc.notifyAssignee(ctx, s.UserID, updated)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Lead updated successfully",
		Data:    updated,
	})
}

// DeleteLead removes a lead and its notes. Only a confirmed delete drops it
// from the store; re-fetching will not resurrect it.
func (lc *LeadController) DeleteLead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, lc.tenantRepo)
	if err != nil {
		return err
	}

	leadID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid lead ID")
	}

	leadStore, err := lc.stores.ForTenant(ctx, s.TenantID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to load leads")
	}

	if _, ok := leadStore.Get(leadID); !ok {
		return fail(c, http.StatusNotFound, "Lead not found")
	}

	if err := leadStore.Delete(ctx, leadID); err != nil {
		if err == mongo.ErrNoDocuments {
			return fail(c, http.StatusNotFound, "Lead not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to delete lead")
	}

	lc.hub.BroadcastToTenant(s.TenantID, websocket.Event{
		Type: websocket.EventLeadDeleted,
		Data: map[string]string{"leadId": leadID.Hex()},
	})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Lead deleted successfully",
	})
}

// AddNote persists a note for a lead, then refreshes the store's view of the
// lead's note list.
func (lc *LeadController) AddNote(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, lc.tenantRepo)
	if err != nil {
		return err
	}

	leadID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid lead ID")
	}

	var req models.AddNoteRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Note content is required")
	}

	leadStore, err := lc.stores.ForTenant(ctx, s.TenantID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to load leads")
	}

	lead, ok := leadStore.Get(leadID)
	if !ok {
		return fail(c, http.StatusNotFound, "Lead not found")
	}

	note, err := lc.leadRepo.InsertNote(ctx, models.LeadNote{
		LeadID:    leadID,
		Content:   req.Content,
		CreatedBy: &s.UserID,
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to save note")
	}

	// Persisted first, then the local view catches up
	notes := append([]models.LeadNote{note}, lead.Notes...)
	if err := leadStore.UpdateNotes(leadID, notes); err != nil {
		log.Printf("Note saved but store refresh failed for lead %s: %v", leadID.Hex(), err)
	}

	lc.activityRepo.Append(s.TenantID, &leadID, &s.UserID, models.ActivityNote, "Note added")

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Note added successfully",
		Data:    note,
	})
}

// ReplaceNotes replaces a lead's whole note list.
func (lc *LeadController) ReplaceNotes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, lc.tenantRepo)
	if err != nil {
		return err
	}

	leadID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid lead ID")
	}

	var req models.ReplaceNotesRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	leadStore, err := lc.stores.ForTenant(ctx, s.TenantID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to load leads")
	}

	if _, ok := leadStore.Get(leadID); !ok {
		return fail(c, http.StatusNotFound, "Lead not found")
	}

	notes := make([]models.LeadNote, 0, len(req.Notes))
	for _, content := range req.Notes {
		notes = append(notes, models.LeadNote{
			LeadID:    leadID,
			Content:   content,
			CreatedBy: &s.UserID,
		})
	}

	saved, err := lc.leadRepo.ReplaceNotes(ctx, leadID, notes)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to save notes")
	}

	if err := leadStore.UpdateNotes(leadID, saved); err != nil {
		log.Printf("Notes saved but store refresh failed for lead %s: %v", leadID.Hex(), err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notes updated successfully",
		Data:    saved,
	})
}

// GetActivities returns a lead's audit trail.
func (lc *LeadController) GetActivities(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, lc.tenantRepo)
	if err != nil {
		return err
	}

	leadIDHex := c.QueryParam("leadId")
	if leadIDHex == "" {
		activities, err := lc.activityRepo.ListByTenant(ctx, s.TenantID, 100)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "Failed to fetch activities")
		}
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Activities retrieved successfully",
			Data:    activities,
		})
	}

	leadID, err := primitive.ObjectIDFromHex(leadIDHex)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid lead ID")
	}

	activities, err := lc.activityRepo.ListByLead(ctx, s.TenantID, leadID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to fetch activities")
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Activities retrieved successfully",
		Data:    activities,
	})
}

// ImportLeads parses an uploaded CSV, creates the valid rows in the active
// tenant and reports per-row errors for the rest.
func (lc *LeadController) ImportLeads(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, lc.tenantRepo)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "CSV file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "Failed to read uploaded file")
	}
	defer file.Close()

	leads, parseErrors := utils.ParseLeadsCSV(file, s.TenantID, s.UserID)

	leadStore, err := lc.stores.ForTenant(ctx, s.TenantID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to load leads")
	}

	batchID := uuid.NewString()
	imported := make([]models.Lead, 0, len(leads))
	for _, lead := range leads {
		created, err := leadStore.Create(ctx, lead)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("Failed to save lead %q: %v", lead.Name, err))
			continue
		}
		imported = append(imported, created)
	}

	if len(imported) > 0 {
		lc.activityRepo.Append(s.TenantID, nil, &s.UserID, models.ActivityNote,
			fmt.Sprintf("Imported %d leads from CSV (batch %s)", len(imported), batchID))
		lc.hub.BroadcastToTenant(s.TenantID, websocket.Event{
			Type:    websocket.EventLeadCreated,
			Message: fmt.Sprintf("%d leads imported", len(imported)),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: fmt.Sprintf("Imported %d leads with %d errors", len(imported), len(parseErrors)),
		Data: map[string]interface{}{
			"batchId":  batchID,
			"imported": imported,
			"errors":   parseErrors,
		},
	})
}

// ExportLeads streams the active tenant's leads as CSV.
func (lc *LeadController) ExportLeads(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, lc.tenantRepo)
	if err != nil {
		return err
	}

	leadStore, err := lc.stores.ForTenant(ctx, s.TenantID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to load leads")
	}

	buffer := new(bytes.Buffer)
	if err := utils.WriteLeadsCSV(buffer, leadStore.Leads()); err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to build CSV export")
	}

	c.Response().Header().Set("Content-Disposition", "attachment; filename=leads.csv")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buffer.Bytes())
}

// SampleCSV serves the import template.
func (lc *LeadController) SampleCSV(c echo.Context) error {
	c.Response().Header().Set("Content-Disposition", "attachment; filename=sample_leads.csv")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(utils.SampleLeadsCSV))
}
