package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadflow/leadflow_backend/controllers"
	"github.com/leadflow/leadflow_backend/middleware"
)

// RegisterAuthRoutes sets up authentication routes
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client, authController *controllers.AuthController) {
	// Public authentication routes
	e.POST("/api/auth/signup", authController.Signup)
	e.POST("/api/auth/login", authController.Login)

	// Protected profile route
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())
	r.GET("/auth/profile", authController.GetProfile)
}
