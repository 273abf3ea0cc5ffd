package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/invoice"
	"expense-backoffice/internal/models"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var overdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "Vadesi geçmiş faturaları listeler",
	RunE:  runOverdue,
}

func init() {
	rootCmd.AddCommand(overdueCmd)

	overdueCmd.Flags().String("today", "", "referans tarih (YYYY-MM-DD, varsayılan bugün)")
}

func runOverdue(cmd *cobra.Command, args []string) error {
	today := time.Now()
	if s, _ := cmd.Flags().GetString("today"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return fmt.Errorf("today YYYY-MM-DD olmalı: %w", err)
		}
		today = t
	}

	up, businessID, err := upstream(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	var (
		invoices  []models.Invoice
		suppliers []models.Supplier
	)
	g, gctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		invoices, err = up.ListInvoices(gctx, businessID, apiclient.InvoiceFilter{PaidStatus: models.PaidStatusPending})
		return err
	})
	g.Go(func() error {
		var err error
		suppliers, err = up.ListSuppliers(gctx, businessID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	q := invoice.ListQuery{Status: models.PaidStatusOverdue, Sort: "date"}
	views := invoice.Filter(invoice.BuildViews(invoices, suppliers, today), q)
	invoice.Sort(views, q)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "No\tTedarikçi\tTarih\tVade\tTutar\t")
	for _, v := range views {
		due := v.DueDate
		if due == "" {
			due = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			v.InvoiceNumber, v.SupplierName, v.InvoiceDate, due, v.TotalAmount.StringFixed(2))
	}
	fmt.Fprintf(w, "%d fatura\t\t\t\t\t\n", len(views))
	return w.Flush()
}
