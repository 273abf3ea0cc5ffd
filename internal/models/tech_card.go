package models

import "github.com/shopspring/decimal"

type ApprovalStatus string

const (
	ApprovalDraft    ApprovalStatus = "draft"
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// TechCard: reçete maliyet kartı
type TechCard struct {
	ID             uint                 `json:"id"`
	BusinessID     uint                 `json:"business_id"`
	Name           string               `json:"name"`
	SellingPrice   decimal.Decimal      `json:"selling_price"`
	ApprovalStatus ApprovalStatus       `json:"approval_status"`
	Ingredients    []TechCardIngredient `json:"ingredients"`
}

type TechCardIngredient struct {
	CategoryID uint            `json:"category_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitID     uint            `json:"unit_id"`
}
