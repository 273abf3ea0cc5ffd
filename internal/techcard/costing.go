package techcard

import (
	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/models"
	"expense-backoffice/internal/unit"

	"github.com/shopspring/decimal"
)

// Line bir malzemenin maliyet kırılımı.
type Line struct {
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitID       uint            `json:"unit_id"`

	// Kategorinin varsayılan birimine çevrilmiş miktar ve o birimin fiyatı
	PriceUnitID uint            `json:"price_unit_id"`
	PriceQty    decimal.Decimal `json:"price_qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Cost        decimal.Decimal `json:"cost"`
	Warning     string          `json:"warning,omitempty"`
}

type Costing struct {
	Cost          decimal.Decimal `json:"cost"`
	Margin        decimal.Decimal `json:"margin"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
	Lines         []Line          `json:"lines"`

	// Fiyatı ya da birimi çözülemeyen satır varsa maliyet eksiktir
	Complete bool `json:"complete"`
}

// Inputs maliyet hesabı için gereken işletme verisi.
type Inputs struct {
	Categories map[uint]models.ExpenseCategory
	Units      *unit.Catalog

	// kategori id -> kategorinin varsayılan biriminde ay ortalama alış fiyatı
	Prices map[uint]decimal.Decimal
}

func NewInputs(categories []models.ExpenseCategory, units *unit.Catalog, prices map[uint]decimal.Decimal) Inputs {
	in := Inputs{
		Categories: make(map[uint]models.ExpenseCategory, len(categories)),
		Units:      units,
		Prices:     prices,
	}
	for _, c := range categories {
		in.Categories[c.ID] = c
	}
	return in
}

// Cost her malzeme miktarını kategorinin varsayılan birimine çevirip ay
// ortalama fiyatı ile çarpar. Marj = satış fiyatı - maliyet.
func Cost(card models.TechCard, in Inputs) Costing {
	out := Costing{Lines: make([]Line, 0, len(card.Ingredients)), Complete: true}

	for _, ing := range card.Ingredients {
		line := Line{
			CategoryID:  ing.CategoryID,
			Quantity:    ing.Quantity,
			UnitID:      ing.UnitID,
			PriceUnitID: ing.UnitID,
			PriceQty:    ing.Quantity,
		}

		cat, ok := in.Categories[ing.CategoryID]
		if !ok {
			line.Warning = "Kategori bulunamadı"
			out.Complete = false
			out.Lines = append(out.Lines, line)
			continue
		}
		line.CategoryName = cat.Name

		if cat.DefaultUnitID != nil && *cat.DefaultUnitID != ing.UnitID {
			qty, err := in.Units.Convert(ing.Quantity, ing.UnitID, *cat.DefaultUnitID)
			if err != nil {
				line.Warning = apiclient.Normalize(err).Message
				out.Complete = false
				out.Lines = append(out.Lines, line)
				continue
			}
			line.PriceUnitID = *cat.DefaultUnitID
			line.PriceQty = qty
		}

		price, ok := in.Prices[ing.CategoryID]
		if !ok {
			line.Warning = "Bu ay için alış fiyatı yok"
			out.Complete = false
		}
		line.UnitPrice = price
		line.Cost = line.PriceQty.Mul(price).Round(2)
		out.Cost = out.Cost.Add(line.Cost)
		out.Lines = append(out.Lines, line)
	}

	out.Margin = card.SellingPrice.Sub(out.Cost)
	if card.SellingPrice.IsPositive() {
		out.MarginPercent = out.Margin.Div(card.SellingPrice).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return out
}
