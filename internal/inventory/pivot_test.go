package inventory

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(date, pq, pa, uq, ua string) models.SummaryDay {
	return models.SummaryDay{
		Date:            date,
		PurchasesQty:    d(pq),
		PurchasesAmount: d(pa),
		UsageQty:        d(uq),
		UsageAmount:     d(ua),
	}
}

func sampleSummary() *models.MonthSummary {
	return &models.MonthSummary{
		Year:  2025,
		Month: 2,
		Sections: []models.SummarySection{
			{
				ID: 1, Name: "Produce", OrderIndex: 1,
				Categories: []models.SummaryCategory{
					{ID: 11, Name: "Tomato", UnitSymbol: "kg", Days: []models.SummaryDay{
						day("2025-02-01", "10", "150", "2", "30"),
						day("2025-02-15", "5", "80", "4", "60"),
					}},
					{ID: 12, Name: "Basil", UnitSymbol: "pcs"},
				},
			},
			{
				ID: 2, Name: "Dairy", OrderIndex: 1,
				Categories: []models.SummaryCategory{
					{ID: 21, Name: "Milk", UnitSymbol: "l", Days: []models.SummaryDay{
						day("2025-02-01", "20", "40", "0", "0"),
					}},
				},
			},
		},
	}
}

func TestMonthDays(t *testing.T) {
	assert.Len(t, MonthDays(2025, 2), 28)
	assert.Len(t, MonthDays(2024, 2), 29)
	days := MonthDays(2025, 12)
	assert.Len(t, days, 31)
	assert.Equal(t, "2025-12-01", days[0])
	assert.Equal(t, "2025-12-31", days[30])
}

func TestBuildPivotSumsAndOrder(t *testing.T) {
	p, err := BuildPivot(sampleSummary(), 7, 2025, 2)
	require.NoError(t, err)

	require.Len(t, p.Days, 28)
	require.Len(t, p.Sections, 2)
	// order_index eşit, isim sırası
	assert.Equal(t, "Dairy", p.Sections[0].Name)
	assert.Equal(t, "Produce", p.Sections[1].Name)

	produce := p.Sections[1]
	require.Len(t, produce.Categories, 2)
	assert.Equal(t, "Basil", produce.Categories[0].Name)
	tomato := produce.Categories[1]

	assert.True(t, tomato.Cells[0].PurchasesQty.Equal(d("10")))
	assert.True(t, tomato.Cells[14].UsageAmount.Equal(d("60")))
	assert.True(t, tomato.Cells[1].IsZero())
	assert.True(t, tomato.Total.PurchasesQty.Equal(d("15")))
	assert.True(t, tomato.Total.PurchasesAmount.Equal(d("230")))
	assert.True(t, tomato.Total.UsageQty.Equal(d("6")))

	for _, c := range produce.Categories[0].Cells {
		assert.True(t, c.IsZero())
	}
	assert.True(t, produce.Categories[0].Total.IsZero())

	assert.True(t, produce.DayTotals[0].PurchasesAmount.Equal(d("150")))
	assert.True(t, produce.Total.UsageAmount.Equal(d("90")))

	// genel toplam düz toplamdır, birim dönüşümü yok
	assert.True(t, p.DayTotals[0].PurchasesQty.Equal(d("30")))
	assert.True(t, p.Total.PurchasesAmount.Equal(d("270")))
	assert.True(t, p.Total.UsageQty.Equal(d("6")))
}

func TestBuildPivotZeroActivityMonth(t *testing.T) {
	summary := &models.MonthSummary{
		Sections: []models.SummarySection{
			{ID: 1, Name: "Produce", Categories: []models.SummaryCategory{{ID: 11, Name: "Tomato"}}},
			{ID: 2, Name: "Empty"},
		},
	}
	p, err := BuildPivot(summary, 1, 2025, 4)
	require.NoError(t, err)

	require.Len(t, p.Days, 30)
	for _, s := range p.Sections {
		assert.True(t, s.Total.IsZero())
		require.Len(t, s.DayTotals, 30)
		for _, c := range s.DayTotals {
			assert.True(t, c.IsZero())
		}
		for _, row := range s.Categories {
			require.Len(t, row.Cells, 30)
			for _, c := range row.Cells {
				assert.True(t, c.IsZero())
			}
			assert.True(t, row.AvgPurchasePrice.IsZero())
		}
	}
	assert.True(t, p.Total.IsZero())
	assert.Empty(t, p.AveragePrices())
}

func TestBuildPivotNilSummaryAndDuplicateDays(t *testing.T) {
	p, err := BuildPivot(nil, 1, 2025, 1)
	require.NoError(t, err)
	assert.Empty(t, p.Sections)
	assert.True(t, p.Total.IsZero())

	summary := &models.MonthSummary{Sections: []models.SummarySection{{
		ID: 1, Name: "S",
		Categories: []models.SummaryCategory{{ID: 5, Name: "C", Days: []models.SummaryDay{
			day("2025-01-03", "1", "10", "0", "0"),
			day("2025-01-03", "2", "20", "0", "0"),
			day("2024-12-31", "99", "99", "99", "99"),
		}}},
	}}}
	p, err = BuildPivot(summary, 1, 2025, 1)
	require.NoError(t, err)
	row := p.Sections[0].Categories[0]
	assert.True(t, row.Cells[2].PurchasesQty.Equal(d("3")))
	assert.True(t, row.Total.PurchasesQty.Equal(d("3")), "ay dışı günler sayılmaz")
}

func TestBuildPivotRejectsInvalidMonth(t *testing.T) {
	_, err := BuildPivot(nil, 1, 2025, 13)
	assert.True(t, apiclient.IsCode(err, apiclient.CodeValidation))
	_, err = BuildPivot(nil, 1, 1999, 1)
	assert.True(t, apiclient.IsCode(err, apiclient.CodeValidation))
}

func TestAveragePrices(t *testing.T) {
	p, err := BuildPivot(sampleSummary(), 7, 2025, 2)
	require.NoError(t, err)

	prices := p.AveragePrices()
	assert.True(t, prices[11].Equal(d("15.3333")))
	assert.True(t, prices[21].Equal(d("2")))
	_, ok := prices[12]
	assert.False(t, ok)

	row, ok := p.Category(21)
	require.True(t, ok)
	assert.Equal(t, "Milk", row.Name)
}

type fakeFetcher struct {
	summary *models.MonthSummary
	err     error
	calls   int
}

func (f *fakeFetcher) MonthSummary(ctx context.Context, businessID uint, year, month int) (*models.MonthSummary, error) {
	f.calls++
	return f.summary, f.err
}

func TestLoadMarksFetchErrorsRetryable(t *testing.T) {
	f := &fakeFetcher{err: apiclient.NewError(403, apiclient.CodeInsufficientPerms, "yetki yok")}
	p, err := Load(context.Background(), f, 1, 2025, 2)
	assert.Nil(t, p)
	apiErr, ok := apiclient.AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.Retryable)
	assert.Equal(t, apiclient.CodeInsufficientPerms, apiErr.Code)

	f = &fakeFetcher{err: errors.New("boom")}
	_, err = Load(context.Background(), f, 1, 2025, 2)
	apiErr, ok = apiclient.AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.Retryable)
}

func TestLoadValidatesBeforeFetching(t *testing.T) {
	f := &fakeFetcher{}
	_, err := Load(context.Background(), f, 1, 2025, 0)
	assert.Error(t, err)
	assert.Equal(t, 0, f.calls)
}

func TestWriteXLSX(t *testing.T) {
	p, err := BuildPivot(sampleSummary(), 7, 2025, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(p, &buf))
	assert.Equal(t, "envanter-2025-02.xlsx", ExportFileName(p))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"2025-02"}, f.GetSheetList())
	rows, err := f.GetRows("2025-02")
	require.NoError(t, err)

	// başlık + (Dairy: 1 kategori + toplam) + (Produce: 2 kategori + toplam) + genel toplam, her biri 4 satır
	require.Len(t, rows, 1+4*(2+3+1))
	assert.Equal(t, "Bölüm", rows[0][0])
	assert.Equal(t, "Toplam", rows[0][len(rows[0])-1])
	assert.Len(t, rows[0], 4+28+1)

	milk := rows[1]
	assert.Equal(t, "Dairy", milk[0])
	assert.Equal(t, "Milk", milk[1])
	assert.Equal(t, "Alış miktarı", milk[3])
	assert.Equal(t, "20", milk[4])

	last := rows[len(rows)-1]
	assert.Equal(t, "Genel toplam", last[0])
	assert.Equal(t, "Kullanım tutarı", last[3])
	assert.Equal(t, "90", last[len(last)-1])
}
