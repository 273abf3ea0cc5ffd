package inventory

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/expense"
	"expense-backoffice/internal/models"

	"github.com/shopspring/decimal"
)

const isoDate = "2006-01-02"

// Cell bir gün (ya da toplam) için alış/kullanım miktar ve tutarı.
type Cell struct {
	PurchasesQty    decimal.Decimal         `json:"purchases_qty"`
	PurchasesAmount decimal.Decimal         `json:"purchases_amount"`
	UsageQty        decimal.Decimal         `json:"usage_qty"`
	UsageAmount     decimal.Decimal         `json:"usage_amount"`
	PurchaseDetails []models.PurchaseDetail `json:"purchase_details,omitempty"`
}

func (c *Cell) add(o Cell) {
	c.PurchasesQty = c.PurchasesQty.Add(o.PurchasesQty)
	c.PurchasesAmount = c.PurchasesAmount.Add(o.PurchasesAmount)
	c.UsageQty = c.UsageQty.Add(o.UsageQty)
	c.UsageAmount = c.UsageAmount.Add(o.UsageAmount)
}

func (c Cell) IsZero() bool {
	return c.PurchasesQty.IsZero() && c.PurchasesAmount.IsZero() &&
		c.UsageQty.IsZero() && c.UsageAmount.IsZero()
}

func cellFromDay(d models.SummaryDay) Cell {
	return Cell{
		PurchasesQty:    d.PurchasesQty,
		PurchasesAmount: d.PurchasesAmount,
		UsageQty:        d.UsageQty,
		UsageAmount:     d.UsageAmount,
		PurchaseDetails: d.PurchaseDetails,
	}
}

type CategoryRow struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	OrderIndex int    `json:"order_index"`
	UnitSymbol string `json:"unit_symbol"`

	// Cells[i] ayın i+1. günü
	Cells []Cell `json:"cells"`
	Total Cell   `json:"total"`

	// Ay içi ortalama alış fiyatı (tutar / miktar), alış yoksa sıfır
	AvgPurchasePrice decimal.Decimal `json:"avg_purchase_price"`
}

type SectionBlock struct {
	ID         uint          `json:"id"`
	Name       string        `json:"name"`
	OrderIndex int           `json:"order_index"`
	Categories []CategoryRow `json:"categories"`
	DayTotals  []Cell        `json:"day_totals"`
	Total      Cell          `json:"total"`
}

// Pivot bölüm -> kategori -> gün tablosu. Tüm toplamlar düz toplamdır;
// birim dönüşümü ya da ağırlıklandırma yapılmaz.
type Pivot struct {
	BusinessID uint           `json:"business_id"`
	Year       int            `json:"year"`
	Month      int            `json:"month"`
	Days       []string       `json:"days"`
	Sections   []SectionBlock `json:"sections"`
	DayTotals  []Cell         `json:"day_totals"`
	Total      Cell           `json:"total"`
}

func ValidateMonth(year, month int) error {
	if month < 1 || month > 12 {
		return apiclient.NewError(http.StatusBadRequest, apiclient.CodeValidation, "month geçersiz")
	}
	if year < 2000 || year > 2100 {
		return apiclient.NewError(http.StatusBadRequest, apiclient.CodeValidation, "year geçersiz")
	}
	return nil
}

// MonthDays ayın tüm günlerini "YYYY-MM-DD" olarak döner.
func MonthDays(year, month int) []string {
	firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstDay.AddDate(0, 1, -1)

	days := make([]string, 0, lastDay.Day())
	for d := firstDay; !d.After(lastDay); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(isoDate))
	}
	return days
}

// BuildPivot seyrek gün listelerini ayın her günü için hücreye açar.
// Kaydı olmayan günler ve hareketsiz kategoriler sıfır hücre alır.
func BuildPivot(summary *models.MonthSummary, businessID uint, year, month int) (*Pivot, error) {
	if err := ValidateMonth(year, month); err != nil {
		return nil, err
	}

	days := MonthDays(year, month)
	p := &Pivot{
		BusinessID: businessID,
		Year:       year,
		Month:      month,
		Days:       days,
		Sections:   make([]SectionBlock, 0),
		DayTotals:  make([]Cell, len(days)),
	}
	if summary == nil {
		return p, nil
	}

	for _, s := range summary.Sections {
		block := SectionBlock{
			ID:         s.ID,
			Name:       s.Name,
			OrderIndex: s.OrderIndex,
			Categories: make([]CategoryRow, 0, len(s.Categories)),
			DayTotals:  make([]Cell, len(days)),
		}

		for _, cat := range s.Categories {
			row := buildRow(cat, days)
			for i, cell := range row.Cells {
				block.DayTotals[i].add(cell)
			}
			block.Total.add(row.Total)
			block.Categories = append(block.Categories, row)
		}

		sort.SliceStable(block.Categories, func(i, j int) bool {
			a, b := block.Categories[i], block.Categories[j]
			return expense.LessByOrder(a.OrderIndex, b.OrderIndex, a.Name, b.Name, a.ID, b.ID)
		})

		for i, cell := range block.DayTotals {
			p.DayTotals[i].add(cell)
		}
		p.Total.add(block.Total)
		p.Sections = append(p.Sections, block)
	}

	sort.SliceStable(p.Sections, func(i, j int) bool {
		a, b := p.Sections[i], p.Sections[j]
		return expense.LessByOrder(a.OrderIndex, b.OrderIndex, a.Name, b.Name, a.ID, b.ID)
	})
	return p, nil
}

func buildRow(cat models.SummaryCategory, days []string) CategoryRow {
	// tarih -> hücre; aynı gün birden fazla gelirse toplanır
	lookup := make(map[string]Cell, len(cat.Days))
	for _, d := range cat.Days {
		cell := lookup[d.Date]
		cell.add(cellFromDay(d))
		cell.PurchaseDetails = append(cell.PurchaseDetails, d.PurchaseDetails...)
		lookup[d.Date] = cell
	}

	row := CategoryRow{
		ID:         cat.ID,
		Name:       cat.Name,
		OrderIndex: cat.OrderIndex,
		UnitSymbol: cat.UnitSymbol,
		Cells:      make([]Cell, len(days)),
	}
	for i, day := range days {
		cell := lookup[day]
		row.Cells[i] = cell
		row.Total.add(cell)
	}
	row.AvgPurchasePrice = averagePrice(row.Total)
	return row
}

func averagePrice(c Cell) decimal.Decimal {
	if c.PurchasesQty.IsZero() {
		return decimal.Zero
	}
	return c.PurchasesAmount.DivRound(c.PurchasesQty, 4)
}

// Category id ile kategori satırını bulur.
func (p *Pivot) Category(id uint) (*CategoryRow, bool) {
	for si := range p.Sections {
		for ci := range p.Sections[si].Categories {
			if p.Sections[si].Categories[ci].ID == id {
				return &p.Sections[si].Categories[ci], true
			}
		}
	}
	return nil, false
}

// AveragePrices kategori id -> ay içi ortalama alış fiyatı. Alışı olmayan
// kategoriler listede yer almaz.
func (p *Pivot) AveragePrices() map[uint]decimal.Decimal {
	out := make(map[uint]decimal.Decimal)
	for _, s := range p.Sections {
		for _, c := range s.Categories {
			if !c.Total.PurchasesQty.IsZero() {
				out[c.ID] = c.AvgPurchasePrice
			}
		}
	}
	return out
}

func (p *Pivot) Title() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
