package inventory

import (
	"context"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/logger"
	"expense-backoffice/internal/models"
)

// Fetcher ay özetini getirir. *apiclient.Client bunu sağlar.
type Fetcher interface {
	MonthSummary(ctx context.Context, businessID uint, year, month int) (*models.MonthSummary, error)
}

// Load özeti çekip pivotu kurar. Çekme hatası yeniden denenebilir olarak
// işaretlenir; kısmi tablo dönülmez.
func Load(ctx context.Context, f Fetcher, businessID uint, year, month int) (*Pivot, error) {
	if err := ValidateMonth(year, month); err != nil {
		return nil, err
	}

	summary, err := f.MonthSummary(ctx, businessID, year, month)
	if err != nil {
		log := logger.WithComponent("inventory")
		log.Warn().Err(err).Uint("business_id", businessID).Int("year", year).Int("month", month).
			Msg("ay özeti alınamadı")
		return nil, retryable(err)
	}
	return BuildPivot(summary, businessID, year, month)
}

func retryable(err error) error {
	apiErr := *apiclient.Normalize(err)
	apiErr.Retryable = true
	return &apiErr
}
