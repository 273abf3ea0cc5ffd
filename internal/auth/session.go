package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/database"
	"expense-backoffice/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session istek boyunca elden ele taşınan oturum bağlamı: kullanıcı, seçili
// işletme ve upstream erişim token'ı. Global durum yerine açıkça geçirilir.
type Session struct {
	ID          string
	UserID      uint
	UserName    string
	BusinessID  *uint
	AccessToken string
	ExpiresAt   time.Time
}

// Business seçili işletmeyi döner; seçilmemişse hata.
func (s *Session) Business() (uint, error) {
	if s.BusinessID == nil || *s.BusinessID == 0 {
		return 0, apiclient.NewError(http.StatusBadRequest, apiclient.CodeValidation, "İşletme seçilmedi")
	}
	return *s.BusinessID, nil
}

var errSessionNotFound = errors.New("oturum bulunamadı")

func createSession(sealer *Sealer, tokens *models.AuthTokens, user *models.AuthUser, ttl time.Duration) (*models.Session, error) {
	access, err := sealer.Seal(tokens.AccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := sealer.Seal(tokens.RefreshToken)
	if err != nil {
		return nil, err
	}

	row := models.Session{
		ID:                 uuid.NewString(),
		UserID:             user.ID,
		UserName:           user.Name,
		BusinessID:         user.BusinessID,
		SealedAccessToken:  access,
		SealedRefreshToken: refresh,
		ExpiresAt:          time.Now().Add(ttl),
	}
	if err := database.DB.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("oturum kaydedilemedi: %w", err)
	}
	return &row, nil
}

func loadSession(sealer *Sealer, id string) (*Session, error) {
	var row models.Session
	if err := database.DB.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errSessionNotFound
		}
		return nil, err
	}
	if time.Now().After(row.ExpiresAt) {
		return nil, errSessionNotFound
	}
	access, err := sealer.Open(row.SealedAccessToken)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:          row.ID,
		UserID:      row.UserID,
		UserName:    row.UserName,
		BusinessID:  row.BusinessID,
		AccessToken: access,
		ExpiresAt:   row.ExpiresAt,
	}, nil
}

func refreshTokenOf(sealer *Sealer, id string) (string, error) {
	var row models.Session
	if err := database.DB.Select("sealed_refresh_token").First(&row, "id = ?", id).Error; err != nil {
		return "", err
	}
	return sealer.Open(row.SealedRefreshToken)
}

func updateTokens(sealer *Sealer, id string, tokens *models.AuthTokens) error {
	access, err := sealer.Seal(tokens.AccessToken)
	if err != nil {
		return err
	}
	updates := map[string]any{"sealed_access_token": access}
	if tokens.RefreshToken != "" {
		refresh, err := sealer.Seal(tokens.RefreshToken)
		if err != nil {
			return err
		}
		updates["sealed_refresh_token"] = refresh
	}
	return database.DB.Model(&models.Session{}).Where("id = ?", id).Updates(updates).Error
}

func setBusiness(id string, businessID uint) error {
	return database.DB.Model(&models.Session{}).Where("id = ?", id).Update("business_id", businessID).Error
}

func deleteSession(id string) error {
	return database.DB.Delete(&models.Session{}, "id = ?", id).Error
}

// PurgeExpired süresi dolmuş oturumları siler.
func PurgeExpired(now time.Time) (int64, error) {
	res := database.DB.Where("expires_at < ?", now).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
