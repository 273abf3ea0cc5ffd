package models

import "time"

// Session: gateway oturumu. Upstream token'ları şifreli saklanır.
type Session struct {
	ID                 string    `gorm:"primaryKey;size:36"`
	UserID             uint      `gorm:"index;not null"`
	UserName           string    `gorm:"size:100"`
	BusinessID         *uint
	SealedAccessToken  string    `gorm:"type:text;not null"`
	SealedRefreshToken string    `gorm:"type:text"`
	ExpiresAt          time.Time `gorm:"index;not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
