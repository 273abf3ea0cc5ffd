package models

import "time"

type UserPreference struct {
	UserID       uint `gorm:"primaryKey;autoIncrement:false"`
	ShowInactive bool `gorm:"not null;default:false"`
	UpdatedAt    time.Time
}
