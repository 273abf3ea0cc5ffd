package models

import "time"

type AuditAction string

const (
	AuditActionCreate        AuditAction = "create"
	AuditActionUpdate        AuditAction = "update"
	AuditActionDelete        AuditAction = "delete"
	AuditActionActivate      AuditAction = "activate"
	AuditActionDeactivate    AuditAction = "deactivate"
	AuditActionMarkPaid      AuditAction = "mark_paid"
	AuditActionMarkCancelled AuditAction = "mark_cancelled"
	AuditActionRestore       AuditAction = "restore"
	AuditActionGrant         AuditAction = "grant"
	AuditActionRevoke        AuditAction = "revoke"
)

// AuditLog: gateway üzerinden yapılan değişikliklerin kaydı.
// Asıl veri upstream'de, burada sadece kim neyi ne zaman değiştirdi tutulur.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	BusinessID *uint `gorm:"index" json:"business_id"`

	UserID   uint   `gorm:"index" json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"`

	// ör: "section", "category", "invoice", "tech_card"
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action      AuditAction `gorm:"size:20" json:"action"`
	Description string      `gorm:"size:255" json:"description"`

	// Önceki ve sonraki hal (JSON). sqlite ile de çalışsın diye text.
	BeforeData string `gorm:"type:text" json:"before_data"`
	AfterData  string `gorm:"type:text" json:"after_data"`
}
