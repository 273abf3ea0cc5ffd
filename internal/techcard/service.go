package techcard

import (
	"context"

	"expense-backoffice/internal/inventory"
	"expense-backoffice/internal/models"
	"expense-backoffice/internal/unit"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Source maliyet için gereken upstream uçları. *apiclient.Client bunu sağlar.
type Source interface {
	unit.Lister
	inventory.Fetcher
	ListCategories(ctx context.Context, businessID uint) ([]models.ExpenseCategory, error)
}

// LoadInputs kategori, birim ve ay özetini eşzamanlı çeker.
func LoadInputs(ctx context.Context, src Source, units *unit.Store, businessID, userID uint, year, month int) (Inputs, error) {
	var (
		categories []models.ExpenseCategory
		catalog    *unit.Catalog
		prices     map[uint]decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = src.ListCategories(gctx, businessID)
		return err
	})
	g.Go(func() error {
		var err error
		catalog, err = units.Catalog(gctx, src, businessID, userID)
		return err
	})
	g.Go(func() error {
		p, err := inventory.Load(gctx, src, businessID, year, month)
		if err != nil {
			return err
		}
		prices = p.AveragePrices()
		return nil
	})
	if err := g.Wait(); err != nil {
		return Inputs{}, err
	}
	return NewInputs(categories, catalog, prices), nil
}
