// models/invoice.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invoice statuses
const (
	InvoicePaid    = "paid"
	InvoicePending = "pending"
	InvoiceOverdue = "overdue"
)

// Invoice model
type Invoice struct {
	ID         primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID   primitive.ObjectID  `json:"tenantId" bson:"tenantId"`
	LeadID     *primitive.ObjectID `json:"leadId,omitempty" bson:"leadId,omitempty"`
	Number     string              `json:"number" bson:"number"`
	ClientName string              `json:"clientName" bson:"clientName"`
	Amount     float64             `json:"amount" bson:"amount"`
	Status     string              `json:"status" bson:"status"`
	DueDate    time.Time           `json:"dueDate" bson:"dueDate"`
	PaidAt     *time.Time          `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	CreatedBy  primitive.ObjectID  `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt  time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// InvoiceSummary aggregates invoice amounts per status.
type InvoiceSummary struct {
	Total   float64 `json:"total"`
	Paid    float64 `json:"paid"`
	Pending float64 `json:"pending"`
	Overdue float64 `json:"overdue"`
	Count   int     `json:"count"`
}

// ValidInvoiceStatus checks a status against the invoice enumeration.
func ValidInvoiceStatus(status string) bool {
	return status == InvoicePaid || status == InvoicePending || status == InvoiceOverdue
}

// SummarizeInvoices folds a list of invoices into per-status totals.
func SummarizeInvoices(invoices []Invoice) InvoiceSummary {
	var s InvoiceSummary
	for _, inv := range invoices {
		s.Total += inv.Amount
		s.Count++
		switch inv.Status {
		case InvoicePaid:
			s.Paid += inv.Amount
		case InvoicePending:
			s.Pending += inv.Amount
		case InvoiceOverdue:
			s.Overdue += inv.Amount
		}
	}
	return s
}

// CreateInvoiceRequest is the payload for creating an invoice.
type CreateInvoiceRequest struct {
	LeadID     string    `json:"leadId,omitempty"`
	Number     string    `json:"number" validate:"required"`
	ClientName string    `json:"clientName" validate:"required"`
	Amount     float64   `json:"amount" validate:"gt=0"`
	Status     string    `json:"status,omitempty" validate:"omitempty,oneof=paid pending overdue"`
	DueDate    time.Time `json:"dueDate" validate:"required"`
}
