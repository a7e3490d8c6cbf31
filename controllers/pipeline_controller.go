// controllers/pipeline_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadflow/leadflow_backend/models"
	"github.com/leadflow/leadflow_backend/pipeline"
	"github.com/leadflow/leadflow_backend/repositories"
	"github.com/leadflow/leadflow_backend/store"
	"github.com/leadflow/leadflow_backend/websocket"
)

// PipelineController serves the kanban board and resolves drag gestures.
type PipelineController struct {
	DB           *mongo.Client
	tenantRepo   *repositories.TenantRepository
	activityRepo *repositories.ActivityRepository
	stores       *store.Manager
	hub          *websocket.Hub
}

func NewPipelineController(db *mongo.Client, stores *store.Manager, hub *websocket.Hub) *PipelineController {
	return &PipelineController{
		DB:           db,
		tenantRepo:   repositories.NewTenantRepository(db),
		activityRepo: repositories.NewActivityRepository(db),
		stores:       stores,
		hub:          hub,
	}
}

// GetBoard returns the active tenant's leads partitioned into status columns
// with per-column value totals.
func (pc *PipelineController) GetBoard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, pc.tenantRepo)
	if err != nil {
		return err
	}

	leadStore, err := pc.stores.ForTenant(ctx, s.TenantID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to load leads")
	}

	board := pipeline.NewBoard(leadStore)
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pipeline retrieved successfully",
		Data:    board.Columns(),
	})
}

// Watch upgrades the connection to a WebSocket scoped to the caller's active
// tenant, so the session receives board events as they happen.
func (pc *PipelineController) Watch(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, pc.tenantRepo)
	if err != nil {
		return err
	}

	return websocket.HandleWebSocket(c, pc.hub, s.UserID, s.TenantID)
}

// MoveLead resolves a drag gesture. A drop outside any column or back onto
// the source column cancels without touching state; a rejected commit leaves
// the board rolled back and notifies watchers to re-render.
func (pc *PipelineController) MoveLead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, pc.tenantRepo)
	if err != nil {
		return err
	}

	var gesture pipeline.Gesture
	if err := c.Bind(&gesture); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&gesture); err != nil {
		return fail(c, http.StatusBadRequest, "Lead ID is required")
	}

	leadStore, err := pc.stores.ForTenant(ctx, s.TenantID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to load leads")
	}

	board := pipeline.NewBoard(leadStore)
	outcome, moved, err := board.Move(ctx, gesture)

	switch outcome {
	case pipeline.MoveApplied:
		pc.activityRepo.Append(s.TenantID, &moved.ID, &s.UserID, models.ActivityStatusChange,
			"Moved to "+moved.Status+" on the pipeline board")
		pc.hub.BroadcastToTenant(s.TenantID, websocket.Event{
			Type: websocket.EventPipelineMove,
			Data: map[string]interface{}{
				"leadId":  moved.ID.Hex(),
				"status":  moved.Status,
				"columns": board.Columns(),
			},
		})
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Lead moved successfully",
			Data: map[string]interface{}{
				"outcome": outcome.String(),
				"lead":    moved,
			},
		})

	case pipeline.MoveRejected:
		// The store has already restored the previous column; watchers
		// re-render from the reverted partition
		pc.hub.BroadcastToTenant(s.TenantID, websocket.Event{
			Type:    websocket.EventPipelineRevert,
			Message: "Move rejected, board reverted",
			Data:    map[string]interface{}{"columns": board.Columns()},
		})
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Move rejected: " + err.Error(),
			Data:    map[string]interface{}{"outcome": outcome.String()},
		})

	default:
		if err != nil {
			if err == store.ErrLeadNotFound {
				return fail(c, http.StatusNotFound, "Lead not found")
			}
			return fail(c, http.StatusBadRequest, err.Error())
		}
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Move cancelled",
			Data:    map[string]interface{}{"outcome": outcome.String()},
		})
	}
}
