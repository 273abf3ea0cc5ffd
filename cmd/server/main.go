package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/audit"
	"expense-backoffice/internal/auth"
	"expense-backoffice/internal/cache"
	"expense-backoffice/internal/config"
	"expense-backoffice/internal/database"
	"expense-backoffice/internal/expense"
	"expense-backoffice/internal/httpx"
	"expense-backoffice/internal/inventory"
	"expense-backoffice/internal/invoice"
	"expense-backoffice/internal/logger"
	"expense-backoffice/internal/period"
	"expense-backoffice/internal/permission"
	"expense-backoffice/internal/preference"
	"expense-backoffice/internal/supplier"
	"expense-backoffice/internal/techcard"
	"expense-backoffice/internal/unit"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const sessionPurgeInterval = time.Hour

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env bulunamadı, ortam değişkenleri kullanılıyor")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config yüklenemedi")
	}
	if err := logger.Setup(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cfg.LogOutput}); err != nil {
		log.Fatal().Err(err).Msg("logger ayarlanamadı")
	}

	if err := database.Init(cfg); err != nil {
		log.Fatal().Err(err).Msg("veritabanına bağlanılamadı")
	}
	if err := cache.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		// birim önbelleği opsiyonel, Redis yoksa upstream'e gidilir
		log.Warn().Err(err).Msg("Redis bağlantısı kurulamadı, önbellek kapalı")
	}
	defer cache.Close()

	api := apiclient.New(cfg.APIBaseURL, cfg.APITimeout)
	authOpts := auth.Options{
		Secret:     cfg.JWTSecret,
		Sealer:     auth.NewSealer(cfg.TokenSealKey),
		SessionTTL: cfg.SessionTTL,
	}
	board := expense.NewService(cfg.BoardCacheTTL)
	search := supplier.NewSearch(cfg.SearchDebounce)
	units := unit.NewStore(cfg.UnitsCacheTTL)

	app := fiber.New(fiber.Config{
		ErrorHandler: httpx.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(httpx.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOriginList(), ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	root := app.Group("/api")

	// Public auth uçları ve JWT korumalı grup
	protected := auth.Routes(root, authOpts, api)

	protected.Get("/preferences", preference.GetPreferencesHandler())
	protected.Put("/preferences", preference.UpdatePreferencesHandler())

	// Gider paneli
	protected.Get("/expense-board", expense.BoardHandler(board, api))

	// Bölümler
	protected.Get("/sections", expense.ListSectionsHandler(api))
	protected.Post("/sections", expense.CreateSectionHandler(board, api))
	protected.Put("/sections/:id", expense.UpdateSectionHandler(board, api))
	protected.Delete("/sections/:id", expense.DeleteSectionHandler(board, api))
	protected.Patch("/sections/:id/activate", expense.SetSectionActiveHandler(board, api, true))
	protected.Patch("/sections/:id/deactivate", expense.SetSectionActiveHandler(board, api, false))

	// Kategoriler
	protected.Get("/categories", expense.ListCategoriesHandler(api))
	protected.Post("/categories", expense.CreateCategoryHandler(board, api))
	protected.Put("/categories/:id", expense.UpdateCategoryHandler(board, api))
	protected.Delete("/categories/:id", expense.DeleteCategoryHandler(board, api))
	protected.Patch("/categories/:id/activate", expense.SetCategoryActiveHandler(board, api, true))
	protected.Patch("/categories/:id/deactivate", expense.SetCategoryActiveHandler(board, api, false))

	// Birimler
	protected.Get("/units", unit.ListUnitsHandler(units, api))
	protected.Get("/units/convert", unit.ConvertHandler(units, api))
	protected.Get("/units/:id/compatible", unit.CompatibleUnitsHandler(units, api))
	protected.Post("/units", unit.CreateUnitHandler(units, api))
	protected.Put("/units/:id", unit.UpdateUnitHandler(units, api))
	protected.Delete("/units/:id", unit.DeleteUnitHandler(units, api))

	// Tedarikçiler
	protected.Get("/suppliers", supplier.ListSuppliersHandler(api))
	protected.Get("/suppliers/search", supplier.SearchSuppliersHandler(search, api))
	protected.Get("/suppliers/:id", supplier.GetSupplierHandler(api))
	protected.Post("/suppliers", supplier.CreateSupplierHandler(api))
	protected.Put("/suppliers/:id", supplier.UpdateSupplierHandler(api))
	protected.Delete("/suppliers/:id", supplier.DeleteSupplierHandler(api))

	// Faturalar
	protected.Get("/invoices", invoice.ListInvoicesHandler(api))
	protected.Get("/invoices/:id", invoice.GetInvoiceHandler(api))
	protected.Get("/invoices/:id/items", invoice.ListItemsHandler(api))
	protected.Post("/invoices", invoice.CreateInvoiceHandler(api))
	protected.Put("/invoices/:id", invoice.UpdateInvoiceHandler(api))
	protected.Delete("/invoices/:id", invoice.DeleteInvoiceHandler(api))
	protected.Post("/invoices/:id/mark-paid", invoice.ActionHandler(api, invoice.MarkPaid))
	protected.Post("/invoices/:id/mark-cancelled", invoice.ActionHandler(api, invoice.MarkCancelled))
	protected.Post("/invoices/:id/restore", invoice.ActionHandler(api, invoice.Restore))

	// Dönemler
	protected.Get("/periods", period.ListPeriodsHandler(api))
	protected.Get("/periods/current", period.CurrentPeriodHandler(api))
	protected.Post("/periods", period.CreatePeriodHandler(api))
	protected.Post("/periods/:id/close", period.ClosePeriodHandler(api))

	// Teknik kartlar
	protected.Get("/tech-cards", techcard.ListTechCardsHandler(units, api))
	protected.Get("/tech-cards/:id", techcard.GetTechCardHandler(units, api))
	protected.Post("/tech-cards", techcard.CreateTechCardHandler(api))
	protected.Put("/tech-cards/:id", techcard.UpdateTechCardHandler(api))
	protected.Delete("/tech-cards/:id", techcard.DeleteTechCardHandler(api))
	protected.Post("/tech-cards/:id/submit", techcard.TransitionHandler(api, techcard.Submit))
	protected.Post("/tech-cards/:id/approve", techcard.TransitionHandler(api, techcard.Approve))
	protected.Post("/tech-cards/:id/reject", techcard.TransitionHandler(api, techcard.Reject))
	protected.Post("/tech-cards/:id/reopen", techcard.TransitionHandler(api, techcard.Reopen))

	// Envanter
	protected.Get("/inventory/summary", inventory.SummaryHandler(api))
	protected.Get("/inventory/summary/export", inventory.ExportHandler(api))

	// Yetkiler
	protected.Get("/permissions", permission.CatalogHandler())
	protected.Get("/permissions/advisory", permission.AdvisoryHandler(api))
	protected.Get("/permissions/employees/:id", permission.GetEmployeeHandler(api))
	protected.Post("/permissions/employees/:id", permission.ApplyHandler(api))

	// Audit log
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go purgeSessions(ctx)

	go func() {
		<-ctx.Done()
		log.Info().Msg("sunucu kapatılıyor")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("sunucu düzgün kapatılamadı")
		}
	}()

	log.Info().Str("port", cfg.HTTPPort).Str("upstream", api.BaseURL()).Msg("sunucu başlatılıyor")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal().Err(err).Msg("sunucu başlatılamadı")
	}
}

// purgeSessions süresi dolmuş oturumları saatte bir temizler.
func purgeSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := auth.PurgeExpired(now)
			if err != nil {
				log.Warn().Err(err).Msg("süresi dolmuş oturumlar silinemedi")
				continue
			}
			if n > 0 {
				log.Info().Int64("count", n).Msg("süresi dolmuş oturumlar silindi")
			}
		}
	}
}
