package inventory

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type metric struct {
	label string
	value func(Cell) decimal.Decimal
}

var metrics = []metric{
	{"Alış miktarı", func(c Cell) decimal.Decimal { return c.PurchasesQty }},
	{"Alış tutarı", func(c Cell) decimal.Decimal { return c.PurchasesAmount }},
	{"Kullanım miktarı", func(c Cell) decimal.Decimal { return c.UsageQty }},
	{"Kullanım tutarı", func(c Cell) decimal.Decimal { return c.UsageAmount }},
}

// WriteXLSX pivotu tek sayfalık bir Excel dosyası olarak yazar. Her kategori
// dört metrik satırı alır; bölüm ve genel toplamlar ayrı satırlardadır.
func WriteXLSX(p *Pivot, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := p.Title()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("sayfa adı verilemedi: %w", err)
	}

	header := []any{"Bölüm", "Kategori", "Birim", "Metrik"}
	for i := range p.Days {
		header = append(header, i+1)
	}
	header = append(header, "Toplam")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return err
	}

	row := 2
	writeBlock := func(section, category, unit string, cells []Cell, total Cell, style int) error {
		for _, m := range metrics {
			values := []any{section, category, unit, m.label}
			for _, c := range cells {
				values = append(values, m.value(c).InexactFloat64())
			}
			values = append(values, m.value(total).InexactFloat64())

			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return err
			}
			if style != 0 {
				if err := f.SetRowStyle(sheet, row, row, style); err != nil {
					return err
				}
			}
			row++
		}
		return nil
	}

	for _, s := range p.Sections {
		for _, c := range s.Categories {
			if err := writeBlock(s.Name, c.Name, c.UnitSymbol, c.Cells, c.Total, 0); err != nil {
				return err
			}
		}
		if err := writeBlock(s.Name, "Bölüm toplamı", "", s.DayTotals, s.Total, bold); err != nil {
			return err
		}
	}
	if err := writeBlock("Genel toplam", "", "", p.DayTotals, p.Total, bold); err != nil {
		return err
	}

	if err := f.SetColWidth(sheet, "A", "B", 22); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "D", "D", 18); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("excel yazılamadı: %w", err)
	}
	return nil
}

// ExportFileName "envanter-2025-03.xlsx"
func ExportFileName(p *Pivot) string {
	return fmt.Sprintf("envanter-%s.xlsx", p.Title())
}
