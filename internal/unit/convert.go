package unit

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/models"

	"github.com/shopspring/decimal"
)

const convertPrecision = 6

// Catalog işletmenin birimleri üzerinde dönüşüm yapar. Türetilmiş birimler
// tek seviyelidir: base birimin kendisi türetilmiş olamaz.
type Catalog struct {
	byID map[uint]models.Unit
}

func NewCatalog(units []models.Unit) *Catalog {
	c := &Catalog{byID: make(map[uint]models.Unit, len(units))}
	for _, u := range units {
		c.byID[u.ID] = u
	}
	return c
}

func (c *Catalog) Unit(id uint) (models.Unit, bool) {
	u, ok := c.byID[id]
	return u, ok
}

func incompatible(msg string) error {
	return apiclient.NewError(http.StatusUnprocessableEntity, apiclient.CodeValidation, msg)
}

// ToBase birimin base birimini ve 1 birimin kaç base birim ettiğini döner.
// Base birim için çarpan 1'dir.
func (c *Catalog) ToBase(id uint) (uint, decimal.Decimal, error) {
	u, ok := c.byID[id]
	if !ok {
		return 0, decimal.Zero, apiclient.NewError(http.StatusNotFound, apiclient.CodeNotFound, fmt.Sprintf("birim bulunamadı: %d", id))
	}
	if u.BaseUnitID == nil {
		return u.ID, decimal.NewFromInt(1), nil
	}

	base, ok := c.byID[*u.BaseUnitID]
	if !ok {
		return 0, decimal.Zero, incompatible(fmt.Sprintf("%s biriminin base birimi bulunamadı", u.Symbol))
	}
	if base.BaseUnitID != nil {
		return 0, decimal.Zero, incompatible(fmt.Sprintf("%s biriminin base birimi de türetilmiş", u.Symbol))
	}
	if u.ConversionFactor == nil || !u.ConversionFactor.IsPositive() {
		return 0, decimal.Zero, incompatible(fmt.Sprintf("%s biriminin çevrim katsayısı yok", u.Symbol))
	}
	return base.ID, *u.ConversionFactor, nil
}

// Convert miktarı from biriminden to birimine çevirir. İki birim aynı base
// zincirinde olmalıdır.
func (c *Catalog) Convert(qty decimal.Decimal, from, to uint) (decimal.Decimal, error) {
	if from == to {
		return qty, nil
	}
	fromBase, fromFactor, err := c.ToBase(from)
	if err != nil {
		return decimal.Zero, err
	}
	toBase, toFactor, err := c.ToBase(to)
	if err != nil {
		return decimal.Zero, err
	}
	if fromBase != toBase {
		fu, _ := c.Unit(from)
		tu, _ := c.Unit(to)
		return decimal.Zero, incompatible(fmt.Sprintf("%s ile %s birbirine çevrilemez", fu.Symbol, tu.Symbol))
	}
	return qty.Mul(fromFactor).DivRound(toFactor, convertPrecision), nil
}

// Compatible verilen birimle aynı base zincirindeki birimleri (kendisi dahil)
// isme göre sıralı döner. Dropdown'lar bunu kullanır.
func (c *Catalog) Compatible(id uint) ([]models.Unit, error) {
	base, _, err := c.ToBase(id)
	if err != nil {
		return nil, err
	}
	out := make([]models.Unit, 0)
	for _, u := range c.byID {
		b, _, err := c.ToBase(u.ID)
		if err != nil || b != base {
			continue
		}
		out = append(out, u)
	}
	sortUnits(out)
	return out, nil
}

func sortUnits(units []models.Unit) {
	sort.SliceStable(units, func(i, j int) bool {
		a, b := strings.ToLower(units[i].Name), strings.ToLower(units[j].Name)
		if a != b {
			return a < b
		}
		return units[i].ID < units[j].ID
	})
}
