package models

// ExpenseSection: kategorileri gruplayan bölüm (örn. "Manav")
type ExpenseSection struct {
	ID         uint   `json:"id"`
	BusinessID uint   `json:"business_id"`
	Name       string `json:"name"`
	OrderIndex int    `json:"order_index"`
	IsActive   bool   `json:"is_active"`
}

// ExpenseCategory: takip edilen gider/malzeme türü
type ExpenseCategory struct {
	ID            uint   `json:"id"`
	SectionID     uint   `json:"section_id"`
	Name          string `json:"name"`
	DefaultUnitID *uint  `json:"default_unit_id"`
	OrderIndex    int    `json:"order_index"`
	IsActive      bool   `json:"is_active"`
}
