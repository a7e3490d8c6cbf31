package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadflow/leadflow_backend/controllers"
	"github.com/leadflow/leadflow_backend/middleware"
	"github.com/leadflow/leadflow_backend/store"
)

// RegisterTenantRoutes sets up tenant selection and employee routes
func RegisterTenantRoutes(e *echo.Echo, db *mongo.Client, stores *store.Manager) {
	tenantController := controllers.NewTenantController(db, stores)
	employeeController := controllers.NewEmployeeController(db)

	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	r.GET("/tenants", tenantController.GetTenants)
	r.POST("/tenants", tenantController.CreateTenant)
	r.GET("/tenants/active", tenantController.GetActiveTenant)
	r.POST("/tenants/active", tenantController.SwitchTenant)

	r.GET("/employees", employeeController.GetEmployees)
	r.PUT("/employees/:id/role", employeeController.UpdateRole)
}
