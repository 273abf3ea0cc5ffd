package models

import "github.com/shopspring/decimal"

type PaidStatus string

const (
	PaidStatusPending   PaidStatus = "pending"
	PaidStatusPaid      PaidStatus = "paid"
	PaidStatusCancelled PaidStatus = "cancelled"

	// Sunucuda saklanmaz, vadeye göre hesaplanır
	PaidStatusOverdue PaidStatus = "overdue"
)

type Invoice struct {
	ID            uint            `json:"id"`
	BusinessID    uint            `json:"business_id"`
	SupplierID    uint            `json:"supplier_id"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   string          `json:"invoice_date"` // "2025-12-09"
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidStatus    PaidStatus      `json:"paid_status"`
	Notes         string          `json:"notes,omitempty"`
	Items         []InvoiceItem   `json:"items,omitempty"`
}

type InvoiceItem struct {
	ID         uint            `json:"id,omitempty"`
	InvoiceID  uint            `json:"invoice_id,omitempty"`
	CategoryID uint            `json:"category_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitID     uint            `json:"unit_id"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}
