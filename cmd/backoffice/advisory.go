package main

import (
	"fmt"
	"strings"

	"expense-backoffice/internal/permission"

	"github.com/spf13/cobra"
)

var advisoryCmd = &cobra.Command{
	Use:   "advisory <permission>",
	Short: "Bir yetki verilir ya da geri alınırsa etkilenenleri listeler",
	Example: `  backoffice advisory view_invoices
  backoffice advisory view_reports --grant --current view_expenses`,
	Args: cobra.ExactArgs(1),
	RunE: runAdvisory,
}

func init() {
	rootCmd.AddCommand(advisoryCmd)

	advisoryCmd.Flags().Bool("grant", false, "verme yönünde değerlendir (varsayılan geri alma)")
	advisoryCmd.Flags().StringSlice("current", nil, "çalışanın mevcut yetkileri")
}

func runAdvisory(cmd *cobra.Command, args []string) error {
	granting, _ := cmd.Flags().GetBool("grant")
	current, _ := cmd.Flags().GetStringSlice("current")

	a := permission.Advise(args[0], granting, current)
	out := cmd.OutOrStdout()
	if !a.Known {
		fmt.Fprintf(out, "%s bilinmeyen bir yetki\n", a.Permission)
		return nil
	}
	fmt.Fprintf(out, "Gereken yetkiler: %s\n", joinOrDash(a.Required))
	fmt.Fprintf(out, "Bağımlı yetkiler: %s\n", joinOrDash(a.Dependent))
	fmt.Fprintf(out, "Etkilenen ekranlar: %s\n", joinOrDash(a.AffectedFeatures))
	for _, w := range a.Warnings {
		fmt.Fprintf(out, "! %s\n", w)
	}
	return nil
}

func joinOrDash(list []string) string {
	if len(list) == 0 {
		return "-"
	}
	return strings.Join(list, ", ")
}
