package database

import (
	"fmt"

	"expense-backoffice/internal/config"
	"expense-backoffice/internal/logger"
	"expense-backoffice/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init bağlantıyı açar, tabloları migrate eder ve global DB'yi ayarlar.
func Init(cfg *config.Config) error {
	db, err := Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	if err := Migrate(db); err != nil {
		return err
	}
	DB = db

	log := logger.WithComponent("database")
	log.Info().Str("driver", cfg.DatabaseDriver).Msg("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
	return nil
}

func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("desteklenmeyen veritabanı sürücüsü: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}
	return db, nil
}

// Migrate sadece gateway'in kendi tablolarını oluşturur; iş verisi upstream'de.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Session{},
		&models.UserPreference{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("AutoMigrate hatası: %w", err)
	}
	return nil
}

// UseTestDB testler için bellek içi sqlite açar ve global DB'yi ayarlar.
func UseTestDB() (*gorm.DB, error) {
	db, err := Open("sqlite", "file::memory:")
	if err != nil {
		return nil, err
	}
	// bellek içi sqlite her bağlantıda ayrı veritabanı açar
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		return nil, err
	}
	DB = db
	return db, nil
}
