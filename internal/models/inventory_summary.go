package models

import "github.com/shopspring/decimal"

// MonthSummary: /inventory-tracking/.../summary cevabı. Günler seyrek gelir,
// hareket olmayan günler listede yer almaz.
type MonthSummary struct {
	BusinessID uint             `json:"business_id"`
	Year       int              `json:"year"`
	Month      int              `json:"month"`
	Sections   []SummarySection `json:"sections"`
}

type SummarySection struct {
	ID         uint              `json:"id"`
	Name       string            `json:"name"`
	OrderIndex int               `json:"order_index"`
	Categories []SummaryCategory `json:"categories"`
}

type SummaryCategory struct {
	ID         uint         `json:"id"`
	Name       string       `json:"name"`
	OrderIndex int          `json:"order_index"`
	UnitSymbol string       `json:"unit_symbol"`
	Days       []SummaryDay `json:"days"`
}

type SummaryDay struct {
	Date            string           `json:"date"` // "2025-01-03"
	PurchasesQty    decimal.Decimal  `json:"purchases_qty"`
	PurchasesAmount decimal.Decimal  `json:"purchases_amount"`
	UsageQty        decimal.Decimal  `json:"usage_qty"`
	UsageAmount     decimal.Decimal  `json:"usage_amount"`
	PurchaseDetails []PurchaseDetail `json:"purchase_details"`
}

type PurchaseDetail struct {
	InvoiceID     uint            `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	SupplierName  string          `json:"supplier_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	Amount        decimal.Decimal `json:"amount"`
}
