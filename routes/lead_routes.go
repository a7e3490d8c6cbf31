package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadflow/leadflow_backend/controllers"
	"github.com/leadflow/leadflow_backend/middleware"
	"github.com/leadflow/leadflow_backend/store"
	"github.com/leadflow/leadflow_backend/websocket"
)

// RegisterLeadRoutes sets up lead, pipeline and activity routes
func RegisterLeadRoutes(e *echo.Echo, db *mongo.Client, stores *store.Manager, hub *websocket.Hub) {
	leadController := controllers.NewLeadController(db, stores, hub)
	pipelineController := controllers.NewPipelineController(db, stores, hub)

	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	// Lead CRUD
	r.GET("/leads", leadController.GetLeads)
	r.POST("/leads", leadController.CreateLead)
	r.PUT("/leads/:id", leadController.UpdateLead)
	r.DELETE("/leads/:id", leadController.DeleteLead)

	// Notes
	r.POST("/leads/:id/notes", leadController.AddNote)
	r.PUT("/leads/:id/notes", leadController.ReplaceNotes)

	// CSV import/export
	r.POST("/leads/import", leadController.ImportLeads)
	r.GET("/leads/export", leadController.ExportLeads)
	r.GET("/leads/import/sample", leadController.SampleCSV)

	// Activity trail
	r.GET("/activities", leadController.GetActivities)

	// Pipeline board
	r.GET("/pipeline", pipelineController.GetBoard)
	r.POST("/pipeline/move", pipelineController.MoveLead)

	// Board events over WebSocket
	r.GET("/ws", pipelineController.Watch)
}
