package dashboard

import (
	"github.com/shopspring/decimal"
)

// Stats is the dashboard payload the upstream API returns.
type Stats struct {
	TotalOrders     int             `json:"total_orders"`
	TotalOrderValue decimal.Decimal `json:"total_order_value"`
	TotalClients    int             `json:"total_clients"`
	TotalInvoices   int             `json:"total_invoices"`
	PendingOrders   int             `json:"pending_orders"`
	Monthly         []MonthlyValue  `json:"monthly"`
	Payments        []PaymentRow    `json:"payments"`
}

// MonthlyValue is one bar on the order-value chart.
type MonthlyValue struct {
	Month string          `json:"month"`
	Value decimal.Decimal `json:"value"`
}

// PaymentRow is one line of the payment summary table and one slice of
// the payment pie.
type PaymentRow struct {
	Status string          `json:"status"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}
