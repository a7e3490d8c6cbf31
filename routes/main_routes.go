package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadflow/leadflow_backend/controllers"
	"github.com/leadflow/leadflow_backend/store"
	"github.com/leadflow/leadflow_backend/websocket"
)

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, db *mongo.Client, stores *store.Manager, hub *websocket.Hub) {
	authController := controllers.NewAuthController(db)

	RegisterAuthRoutes(e, db, authController)
	RegisterTenantRoutes(e, db, stores)
	RegisterLeadRoutes(e, db, stores, hub)
	RegisterInvoiceRoutes(e, db)
	RegisterFollowUpRoutes(e, db, stores)
}
