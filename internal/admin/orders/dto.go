package orders

import (
	"github.com/shopspring/decimal"
)

// Order statuses as the upstream API reports them.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusDispatched = "dispatched"
	StatusInvoiced   = "invoiced"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Statuses lists the selectable order statuses in workflow order.
var Statuses = []string{StatusPending, StatusConfirmed, StatusDispatched, StatusInvoiced, StatusDelivered, StatusCancelled}

// Order is an order record from the upstream API.
type Order struct {
	ID         int64           `json:"id"`
	OrderID    string          `json:"order_id"`
	Client     string          `json:"client"`
	ClientID   int64           `json:"client_id"`
	OrderDate  string          `json:"order_date"`
	OrderValue decimal.Decimal `json:"order_value"`
	Status     string          `json:"status"`
	Counter    string          `json:"counter"`
	CounterID  int64           `json:"counter_id"`
	Remarks    string          `json:"remarks"`
	CreatedBy  string          `json:"created_by"`
}

// StatusInfo is the workflow position of one order as the upstream
// reports it: where the order stands and which moves it permits.
type StatusInfo struct {
	CurrentStatus string   `json:"current_status"`
	AllowedStatus []string `json:"allowed_status"`
}

// ListRequest is the retrieve body for the orders table.
type ListRequest struct {
	Offset       int    `json:"offset"`
	Limit        int    `json:"limit"`
	Search       string `json:"search,omitempty"`
	Status       string `json:"status,omitempty"`
	ClientID     int64  `json:"client,omitempty"`
	CheckedBy    int64  `json:"checked_by,omitempty"`
	DispatchedBy int64  `json:"dispatched_by,omitempty"`
	DateFrom     string `json:"date_from,omitempty"`
	DateTo       string `json:"date_to,omitempty"`
}

// CreateRequest carries the add-order form. OrderID is previewed from
// the server before submission and sent back verbatim.
type CreateRequest struct {
	OrderID    string          `json:"order_id" validate:"required"`
	ClientID   int64           `json:"client" validate:"required,gt=0"`
	OrderDate  string          `json:"order_date" validate:"required"`
	OrderValue decimal.Decimal `json:"order_value" validate:"required"`
	Counter    int64           `json:"counter,omitempty"`
	Remarks    string          `json:"remarks,omitempty" validate:"omitempty,max=500"`
}

// UpdateRequest carries the edit-order form.
type UpdateRequest struct {
	ID         int64           `json:"id" validate:"required,gt=0"`
	ClientID   int64           `json:"client" validate:"required,gt=0"`
	OrderDate  string          `json:"order_date" validate:"required"`
	OrderValue decimal.Decimal `json:"order_value" validate:"required"`
	Counter    int64           `json:"counter,omitempty"`
	Remarks    string          `json:"remarks,omitempty" validate:"omitempty,max=500"`
}

// StatusFields carries the extra inputs some statuses demand: who
// dispatched the order, or the invoice it was billed under.
type StatusFields struct {
	DispatchedBy  int64  `json:"dispatched_by,omitempty"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	InvoiceDate   string `json:"invoice_date,omitempty"`
}

// ChangeStatusRequest moves an order along the workflow. OrderID is the
// human-readable order number, not the row id.
type ChangeStatusRequest struct {
	OrderID        string        `json:"order_id" validate:"required"`
	Status         string        `json:"status" validate:"required"`
	OptionalFields *StatusFields `json:"optional_fields,omitempty"`
}
