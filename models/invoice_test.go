package models

import "testing"

func TestSummarizeInvoices(t *testing.T) {
	invoices := []Invoice{
		{Amount: 100, Status: InvoicePaid},
		{Amount: 250, Status: InvoicePending},
		{Amount: 50, Status: InvoiceOverdue},
		{Amount: 400, Status: InvoicePaid},
	}

	summary := SummarizeInvoices(invoices)
	if summary.Count != 4 {
		t.Fatalf("expected count 4, got %d", summary.Count)
	}
	if summary.Total != 800 {
		t.Fatalf("expected total 800, got %v", summary.Total)
	}
	if summary.Paid != 500 || summary.Pending != 250 || summary.Overdue != 50 {
		t.Fatalf("unexpected per-status totals: %+v", summary)
	}
}

func TestSummarizeInvoicesEmpty(t *testing.T) {
	summary := SummarizeInvoices(nil)
	if summary.Count != 0 || summary.Total != 0 {
		t.Fatalf("empty input should yield a zero summary: %+v", summary)
	}
}
