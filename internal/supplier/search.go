package supplier

import (
	"context"
	"sort"
	"strings"
	"time"

	"expense-backoffice/internal/debounce"
	"expense-backoffice/internal/models"
)

// Searcher tedarikçi listeleme/arama çağrıları. *apiclient.Client bunu sağlar.
type Searcher interface {
	ListSuppliers(ctx context.Context, businessID uint) ([]models.Supplier, error)
	SearchSuppliers(ctx context.Context, businessID uint, term string) ([]models.Supplier, error)
}

type searchArg struct {
	up         Searcher
	businessID uint
	term       string
}

// Search oturum başına arama isteklerini birleştirir: son sorgudan
// bekleme süresi kadar sonra upstream'e tek bir arama gider.
type Search struct {
	c *debounce.Coalescer[searchArg, []models.Supplier]
}

func NewSearch(wait time.Duration) *Search {
	return &Search{c: debounce.New(wait, runSearch)}
}

func runSearch(ctx context.Context, arg searchArg) ([]models.Supplier, error) {
	var (
		list []models.Supplier
		err  error
	)
	if arg.term == "" {
		list, err = arg.up.ListSuppliers(ctx, arg.businessID)
	} else {
		list, err = arg.up.SearchSuppliers(ctx, arg.businessID, arg.term)
	}
	if err != nil {
		return nil, err
	}
	SortByName(list)
	return list, nil
}

// Query key genelde oturum id'sidir; aynı oturumdaki hızlı sorgular birleşir.
func (s *Search) Query(ctx context.Context, key string, up Searcher, businessID uint, term string) ([]models.Supplier, error) {
	return s.c.Do(ctx, key, searchArg{up: up, businessID: businessID, term: strings.TrimSpace(term)})
}

func SortByName(list []models.Supplier) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := strings.ToLower(list[i].Name), strings.ToLower(list[j].Name)
		if a != b {
			return a < b
		}
		return list[i].ID < list[j].ID
	})
}
