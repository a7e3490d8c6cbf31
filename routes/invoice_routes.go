package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadflow/leadflow_backend/controllers"
	"github.com/leadflow/leadflow_backend/middleware"
)

// RegisterInvoiceRoutes sets up invoice routes
func RegisterInvoiceRoutes(e *echo.Echo, db *mongo.Client) {
	invoiceController := controllers.NewInvoiceController(db)

	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	r.GET("/invoices", invoiceController.GetInvoices)
	r.POST("/invoices", invoiceController.CreateInvoice)
	r.GET("/invoices/summary", invoiceController.GetSummary)
	r.GET("/invoices/:id/qr", invoiceController.GetInvoiceQR)
}
