package models

type Supplier struct {
	ID               uint           `json:"id"`
	BusinessID       uint           `json:"business_id"`
	Name             string         `json:"name"`
	TaxID            string         `json:"tax_id"`
	PaymentTermsDays int            `json:"payment_terms_days"`
	ContactInfo      map[string]any `json:"contact_info"`
	IsActive         bool           `json:"is_active"`
}
