package audit

import (
	"encoding/json"
	"fmt"

	"expense-backoffice/internal/auth"
	"expense-backoffice/internal/database"
	"expense-backoffice/internal/logger"
	"expense-backoffice/internal/models"
)

type LogOptions struct {
	BusinessID  *uint
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// Boş string yerine "null" JSON yazılır
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		BusinessID:  opts.BusinessID,
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}
	return nil
}

// Record oturumdaki kullanıcı adına log yazar. Upstream işlemi zaten
// tamamlandığı için yazma hatası isteği düşürmez, sadece loglanır.
func Record(sess *auth.Session, businessID uint, opts LogOptions) {
	opts.UserID = sess.UserID
	opts.UserName = sess.UserName
	if businessID != 0 {
		bid := businessID
		opts.BusinessID = &bid
	}
	if err := WriteLog(opts); err != nil {
		log := logger.WithComponent("audit")
		log.Warn().Err(err).
			Str("entity_type", opts.EntityType).
			Uint("entity_id", opts.EntityID).
			Str("action", string(opts.Action)).
			Msg("audit log yazılamadı")
	}
}
