package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadflow/leadflow_backend/controllers"
	"github.com/leadflow/leadflow_backend/middleware"
	"github.com/leadflow/leadflow_backend/store"
)

// RegisterFollowUpRoutes sets up follow-up routes
func RegisterFollowUpRoutes(e *echo.Echo, db *mongo.Client, stores *store.Manager) {
	followUpController := controllers.NewFollowUpController(db, stores)

	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	r.GET("/followups", followUpController.GetFollowUps)
	r.POST("/followups", followUpController.CreateFollowUp)
	r.PUT("/followups/:id", followUpController.UpdateFollowUp)
	r.POST("/followups/:id/complete", followUpController.CompleteFollowUp)
}
