// controllers/invoice_controller.go
package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadflow/leadflow_backend/models"
	"github.com/leadflow/leadflow_backend/repositories"
	"github.com/leadflow/leadflow_backend/utils"
)

// InvoiceController contains invoice management logic
type InvoiceController struct {
	DB          *mongo.Client
	invoiceRepo *repositories.InvoiceRepository
	tenantRepo  *repositories.TenantRepository
}

func NewInvoiceController(db *mongo.Client) *InvoiceController {
	return &InvoiceController{
		DB:          db,
		invoiceRepo: repositories.NewInvoiceRepository(db),
		tenantRepo:  repositories.NewTenantRepository(db),
	}
}

// GetInvoices lists the active tenant's invoices, sweeping pending invoices
// past their due date into overdue first.
func (ic *InvoiceController) GetInvoices(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, ic.tenantRepo)
	if err != nil {
		return err
	}

	if _, err := ic.invoiceRepo.MarkOverdue(ctx, time.Now()); err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to refresh invoice statuses")
	}

	invoices, err := ic.invoiceRepo.ListByTenant(ctx, s.TenantID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to fetch invoices")
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Invoices retrieved successfully",
		Data:    invoices,
	})
}

// CreateInvoice creates an invoice in the active tenant.
func (ic *InvoiceController) CreateInvoice(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, ic.tenantRepo)
	if err != nil {
		return err
	}

	var req models.CreateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Validation failed: "+err.Error())
	}

	invoice := models.Invoice{
		TenantID:   s.TenantID,
		Number:     req.Number,
		ClientName: req.ClientName,
		Amount:     req.Amount,
		Status:     req.Status,
		DueDate:    req.DueDate,
		CreatedBy:  s.UserID,
	}
	if req.LeadID != "" {
		leadID, err := primitive.ObjectIDFromHex(req.LeadID)
		if err != nil {
			return fail(c, http.StatusBadRequest, "Invalid lead ID")
		}
		invoice.LeadID = &leadID
	}
	if invoice.Status == models.InvoicePaid {
		now := time.Now()
		invoice.PaidAt = &now
	}

	created, err := ic.invoiceRepo.Create(ctx, invoice)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to create invoice")
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Invoice created successfully",
		Data:    created,
	})
}

// GetSummary folds the tenant's invoices into per-status totals.
func (ic *InvoiceController) GetSummary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, ic.tenantRepo)
	if err != nil {
		return err
	}

	if _, err := ic.invoiceRepo.MarkOverdue(ctx, time.Now()); err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to refresh invoice statuses")
	}

	invoices, err := ic.invoiceRepo.ListByTenant(ctx, s.TenantID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to fetch invoices")
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Invoice summary retrieved successfully",
		Data:    models.SummarizeInvoices(invoices),
	})
}

// GetInvoiceQR renders a payment reference QR code for one invoice.
func (ic *InvoiceController) GetInvoiceQR(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, ic.tenantRepo)
	if err != nil {
		return err
	}

	invoiceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid invoice ID")
	}

	invoice, err := ic.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return fail(c, http.StatusNotFound, "Invoice not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to fetch invoice")
	}
	if invoice.TenantID != s.TenantID {
		return fail(c, http.StatusNotFound, "Invoice not found")
	}

	content := fmt.Sprintf("invoice:%s|number:%s|amount:%.2f|due:%s",
		invoice.ID.Hex(), invoice.Number, invoice.Amount, invoice.DueDate.Format("2006-01-02"))

	qrBytes, err := utils.GenerateQRCodePNG(content, 256)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to generate QR code")
	}

	return c.Blob(http.StatusOK, "image/png", qrBytes)
}
