package preference

import (
	"fmt"

	"expense-backoffice/internal/auth"
	"expense-backoffice/internal/database"
	"expense-backoffice/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

type PreferenceResponse struct {
	ShowInactive bool `json:"show_inactive"`
}

type UpdatePreferenceRequest struct {
	ShowInactive *bool `json:"show_inactive"`
}

// ShowInactive kullanıcının pasif kayıtları görme tercihini döner.
// Kayıt yoksa varsayılan false.
func ShowInactive(userID uint) (bool, error) {
	var pref models.UserPreference
	res := database.DB.Where("user_id = ?", userID).Limit(1).Find(&pref)
	if res.Error != nil {
		return false, fmt.Errorf("tercih okunamadı: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return pref.ShowInactive, nil
}

func SetShowInactive(userID uint, show bool) error {
	pref := models.UserPreference{UserID: userID, ShowInactive: show}
	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"show_inactive", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		return fmt.Errorf("tercih kaydedilemedi: %w", err)
	}
	return nil
}

// GET /api/preferences
func GetPreferencesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := auth.CurrentSession(c)
		if err != nil {
			return err
		}
		show, err := ShowInactive(sess.UserID)
		if err != nil {
			return err
		}
		return c.JSON(PreferenceResponse{ShowInactive: show})
	}
}

// PUT /api/preferences
func UpdatePreferencesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := auth.CurrentSession(c)
		if err != nil {
			return err
		}
		var body UpdatePreferenceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.ShowInactive == nil {
			return fiber.NewError(fiber.StatusBadRequest, "show_inactive zorunludur")
		}
		if err := SetShowInactive(sess.UserID, *body.ShowInactive); err != nil {
			return err
		}
		return c.JSON(PreferenceResponse{ShowInactive: *body.ShowInactive})
	}
}
