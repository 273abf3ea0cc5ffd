package models

// MonthPeriod: işletmenin muhasebe ayı, stok bakiyeleri bu aya göre tutulur
type MonthPeriod struct {
	ID         uint   `json:"id"`
	BusinessID uint   `json:"business_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	IsClosed   bool   `json:"is_closed"`
	ClosedAt   string `json:"closed_at,omitempty"`
}
