package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"expense-backoffice/internal/inventory"
	"expense-backoffice/internal/logger"

	"github.com/spf13/cobra"
)

var pivotCmd = &cobra.Command{
	Use:   "pivot",
	Short: "Aylık envanter tablosunu gösterir ya da Excel'e yazar",
	Example: `  backoffice pivot --year 2025 --month 3
  backoffice pivot --month 3 --xlsx envanter.xlsx`,
	RunE: runPivot,
}

func init() {
	rootCmd.AddCommand(pivotCmd)

	now := time.Now()
	pivotCmd.Flags().Int("year", now.Year(), "yıl")
	pivotCmd.Flags().Int("month", int(now.Month()), "ay (1-12)")
	pivotCmd.Flags().String("xlsx", "", "Excel çıktı dosyası; boşsa tablo ekrana yazılır")
}

func runPivot(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("pivot")

	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetInt("month")
	out, _ := cmd.Flags().GetString("xlsx")
	if err := inventory.ValidateMonth(year, month); err != nil {
		return err
	}

	up, businessID, err := upstream(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	p, err := inventory.Load(cmd.Context(), up, businessID, year, month)
	if err != nil {
		return err
	}

	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("dosya oluşturulamadı: %w", err)
		}
		if err := writeAndClose(f, func(w io.Writer) error { return inventory.WriteXLSX(p, w) }); err != nil {
			return err
		}
		log.Info().Str("file", out).Str("month", p.Title()).Msg("envanter Excel'e yazıldı")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "%s\t\t\tAlış\tAlış tutarı\tKullanım\tKullanım tutarı\tOrt. fiyat\t\n", p.Title())
	for _, s := range p.Sections {
		for _, c := range s.Categories {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
				s.Name, c.Name, c.UnitSymbol,
				c.Total.PurchasesQty, c.Total.PurchasesAmount.StringFixed(2),
				c.Total.UsageQty, c.Total.UsageAmount.StringFixed(2),
				c.AvgPurchasePrice)
		}
		fmt.Fprintf(w, "%s\tToplam\t\t%s\t%s\t%s\t%s\t\t\n",
			s.Name, s.Total.PurchasesQty, s.Total.PurchasesAmount.StringFixed(2),
			s.Total.UsageQty, s.Total.UsageAmount.StringFixed(2))
	}
	fmt.Fprintf(w, "Genel toplam\t\t\t%s\t%s\t%s\t%s\t\t\n",
		p.Total.PurchasesQty, p.Total.PurchasesAmount.StringFixed(2),
		p.Total.UsageQty, p.Total.UsageAmount.StringFixed(2))
	return w.Flush()
}

// writeAndClose yazar ve dosyayı kapatır; kapatma hatası da döner.
func writeAndClose(f io.WriteCloser, write func(w io.Writer) error) error {
	werr := write(f)
	if cerr := f.Close(); cerr != nil {
		return errors.Join(werr, fmt.Errorf("dosya kapatılamadı: %w", cerr))
	}
	return werr
}
