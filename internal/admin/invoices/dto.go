package invoices

import (
	"github.com/shopspring/decimal"
)

// Payment statuses as the upstream API reports them.
const (
	PaymentPending = "pending"
	PaymentPartial = "partial"
	PaymentPaid    = "paid"
	PaymentOverdue = "overdue"
)

// PaymentStatuses lists the selectable payment states.
var PaymentStatuses = []string{PaymentPending, PaymentPartial, PaymentPaid, PaymentOverdue}

// Invoice is an invoice record from the upstream API.
type Invoice struct {
	ID            int64           `json:"id"`
	InvoiceNo     string          `json:"invoice_no"`
	Client        string          `json:"client"`
	ClientID      int64           `json:"client_id"`
	InvoiceDate   string          `json:"invoice_date"`
	DueDate       string          `json:"due_date"`
	Amount        decimal.Decimal `json:"amount"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentStatus string          `json:"payment_status"`
	Remarks       string          `json:"remarks"`
}

// ListRequest is the retrieve body for the invoices table.
type ListRequest struct {
	Offset        int    `json:"offset"`
	Limit         int    `json:"limit"`
	Search        string `json:"search,omitempty"`
	ClientID      int64  `json:"client,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`
	DateFrom      string `json:"date_from,omitempty"`
	DateTo        string `json:"date_to,omitempty"`
}

// CreateRequest carries the add-invoice form.
type CreateRequest struct {
	InvoiceNo   string          `json:"invoice_no" validate:"required,max=50"`
	ClientID    int64           `json:"client" validate:"required,gt=0"`
	InvoiceDate string          `json:"invoice_date" validate:"required"`
	DueDate     string          `json:"due_date,omitempty"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Remarks     string          `json:"remarks,omitempty" validate:"omitempty,max=500"`
}

// UpdateRequest carries the edit-invoice form.
type UpdateRequest struct {
	ID            int64           `json:"id" validate:"required,gt=0"`
	InvoiceNo     string          `json:"invoice_no" validate:"required,max=50"`
	ClientID      int64           `json:"client" validate:"required,gt=0"`
	InvoiceDate   string          `json:"invoice_date" validate:"required"`
	DueDate       string          `json:"due_date,omitempty"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	AmountPaid    decimal.Decimal `json:"amount_paid,omitempty"`
	PaymentStatus string          `json:"payment_status,omitempty"`
	Remarks       string          `json:"remarks,omitempty" validate:"omitempty,max=500"`
}
